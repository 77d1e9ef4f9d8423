package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/conjuga/internal/mastery"
)

var attemptSelectColumns = []string{
	"id", "sequence", "user_id", "item_id", "correct",
	"hints_used", "latency_ms", "error_tags", "timestamp",
}

// AttemptRepo is the append-only attempt ledger for all users.
type AttemptRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

// Append records a graded attempt and returns it with its ID and sequence.
func (r *AttemptRepo) Append(ctx context.Context, in AttemptInput) (mastery.Attempt, error) {
	switch {
	case in.UserID == "":
		return mastery.Attempt{}, fmt.Errorf("append attempt: empty user id")
	case in.ItemID == "":
		return mastery.Attempt{}, fmt.Errorf("append attempt: empty item id")
	case in.HintsUsed < 0 || in.LatencyMs < 0:
		return mastery.Attempt{}, fmt.Errorf("append attempt: negative hints or latency")
	case in.Timestamp.IsZero():
		return mastery.Attempt{}, fmt.Errorf("append attempt: missing timestamp")
	}

	tags := in.ErrorTags
	if tags == nil {
		tags = []string{}
	}
	tagJSON, err := json.Marshal(tags)
	if err != nil {
		return mastery.Attempt{}, fmt.Errorf("marshal error tags: %w", err)
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return mastery.Attempt{}, fmt.Errorf("next sequence: %w", err)
	}

	a := mastery.Attempt{
		ID:        uuid.NewString(),
		Sequence:  seqNum,
		ItemID:    in.ItemID,
		UserID:    in.UserID,
		Correct:   in.Correct,
		HintsUsed: in.HintsUsed,
		LatencyMs: in.LatencyMs,
		Timestamp: fromMillis(toMillis(in.Timestamp)),
		ErrorTags: tags,
	}

	query, args := builder().Insert(attemptsTable).
		Columns(attemptSelectColumns...).
		Values(a.ID, a.Sequence, a.UserID, a.ItemID, boolInt(a.Correct),
			a.HintsUsed, a.LatencyMs, string(tagJSON), toMillis(a.Timestamp)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return mastery.Attempt{}, fmt.Errorf("save attempt: %w", err)
	}
	return a, nil
}

// ForItem returns the user's attempts for an item in ledger order, skipping
// the first offset.
func (r *AttemptRepo) ForItem(ctx context.Context, userID, itemID string, offset int) ([]mastery.Attempt, error) {
	b := builder()
	sel := b.Select(attemptSelectColumns...).
		From(b.Table(attemptsTable)).
		Where(entsql.And(entsql.EQ("user_id", userID), entsql.EQ("item_id", itemID))).
		OrderBy("sequence")
	if offset > 0 {
		// SQLite only accepts OFFSET after a LIMIT.
		sel.Limit(-1).Offset(offset)
	}
	return r.query(ctx, sel)
}

// CountForItem returns how many attempts the user has for an item.
func (r *AttemptRepo) CountForItem(ctx context.Context, userID, itemID string) (int, error) {
	b := builder()
	sel := b.Select().Count().
		From(b.Table(attemptsTable)).
		Where(entsql.And(entsql.EQ("user_id", userID), entsql.EQ("item_id", itemID)))
	query, args := sel.Query()

	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count attempts: %w", err)
	}
	return n, nil
}

// ForUser returns all of the user's attempts in ledger order.
func (r *AttemptRepo) ForUser(ctx context.Context, userID string) ([]mastery.Attempt, error) {
	b := builder()
	sel := b.Select(attemptSelectColumns...).
		From(b.Table(attemptsTable)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy("sequence")
	return r.query(ctx, sel)
}

// Recent returns the user's last n attempts in ledger order.
func (r *AttemptRepo) Recent(ctx context.Context, userID string, n int) ([]mastery.Attempt, error) {
	b := builder()
	sel := b.Select(attemptSelectColumns...).
		From(b.Table(attemptsTable)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("sequence")).
		Limit(n)
	out, err := r.query(ctx, sel)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// DeleteForItem removes the user's attempts for an item and returns how many
// were removed. The ledger is otherwise append-only; this exists for data
// removal requests.
func (r *AttemptRepo) DeleteForItem(ctx context.Context, userID, itemID string) (int, error) {
	query, args := builder().Delete(attemptsTable).
		Where(entsql.And(entsql.EQ("user_id", userID), entsql.EQ("item_id", itemID))).
		Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete attempts: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete attempts: %w", err)
	}
	return int(n), nil
}

// Summary aggregates the user's ledger.
func (r *AttemptRepo) Summary(ctx context.Context, userID string) (AttemptSummary, error) {
	b := builder()
	sel := b.Select(
		entsql.Count("*"),
		entsql.Sum("correct"),
		entsql.Count(entsql.Distinct("item_id")),
		entsql.Min("timestamp"),
		entsql.Max("timestamp"),
	).
		From(b.Table(attemptsTable)).
		Where(entsql.EQ("user_id", userID))
	query, args := sel.Query()

	var (
		s           AttemptSummary
		correct     sql.NullInt64
		first, last sql.NullInt64
	)
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&s.Total, &correct, &s.Items, &first, &last); err != nil {
		return AttemptSummary{}, fmt.Errorf("summarize attempts: %w", err)
	}
	s.Correct = int(correct.Int64)
	if first.Valid {
		s.First = fromMillis(first.Int64)
	}
	if last.Valid {
		s.Last = fromMillis(last.Int64)
	}
	return s, nil
}

func (r *AttemptRepo) query(ctx context.Context, sel *entsql.Selector) ([]mastery.Attempt, error) {
	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []mastery.Attempt
	for rows.Next() {
		var (
			a       mastery.Attempt
			correct int
			tags    string
			ts      int64
		)
		if err := rows.Scan(&a.ID, &a.Sequence, &a.UserID, &a.ItemID, &correct,
			&a.HintsUsed, &a.LatencyMs, &tags, &ts); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		a.Correct = correct != 0
		a.Timestamp = fromMillis(ts)
		if err := json.Unmarshal([]byte(tags), &a.ErrorTags); err != nil {
			return nil, fmt.Errorf("attempt %s: decode error tags: %w", a.ID, err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attempts: %w", err)
	}
	return out, nil
}

// UserLedger is one user's view of the attempt ledger.
type UserLedger struct {
	repo   *AttemptRepo
	userID string
}

var _ mastery.Ledger = (*UserLedger)(nil)

// UserID returns the user the ledger is scoped to.
func (l *UserLedger) UserID() string { return l.userID }

func (l *UserLedger) AttemptsForItem(ctx context.Context, itemID string) ([]mastery.Attempt, error) {
	return l.repo.ForItem(ctx, l.userID, itemID, 0)
}

func (l *UserLedger) AttemptsForItemFrom(ctx context.Context, itemID string, offset int) ([]mastery.Attempt, error) {
	return l.repo.ForItem(ctx, l.userID, itemID, offset)
}

func (l *UserLedger) AttemptCount(ctx context.Context, itemID string) (int, error) {
	return l.repo.CountForItem(ctx, l.userID, itemID)
}

// AttemptsForUser returns the attempts of userID, which need not be the
// ledger's own user.
func (l *UserLedger) AttemptsForUser(ctx context.Context, userID string) ([]mastery.Attempt, error) {
	return l.repo.ForUser(ctx, userID)
}
