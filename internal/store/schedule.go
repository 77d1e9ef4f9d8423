package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/conjuga/internal/spacedrep"
)

var scheduleSelectColumns = []string{
	"user_id", "kind", "entry_key", "stage", "next_due",
	"consecutive_hits", "graduated", "last_review",
}

// ScheduleRepo persists spaced repetition entries.
type ScheduleRepo struct {
	db *sql.DB
}

var _ spacedrep.ScheduleRepo = (*ScheduleRepo)(nil)

// DueEntriesBefore returns the user's entries due at or before t, earliest first.
func (r *ScheduleRepo) DueEntriesBefore(ctx context.Context, userID string, t time.Time) ([]spacedrep.Entry, error) {
	b := builder()
	sel := b.Select(scheduleSelectColumns...).
		From(b.Table(scheduleTable)).
		Where(entsql.And(entsql.EQ("user_id", userID), entsql.LTE("next_due", toMillis(t)))).
		OrderBy("next_due", "kind", "entry_key")
	return r.query(ctx, sel)
}

// All returns every entry of the user, earliest due first.
func (r *ScheduleRepo) All(ctx context.Context, userID string) ([]spacedrep.Entry, error) {
	b := builder()
	sel := b.Select(scheduleSelectColumns...).
		From(b.Table(scheduleTable)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy("next_due", "kind", "entry_key")
	return r.query(ctx, sel)
}

// GetEntry returns the entry, or nil if none exists.
func (r *ScheduleRepo) GetEntry(ctx context.Context, userID string, kind spacedrep.Kind, key string) (*spacedrep.Entry, error) {
	b := builder()
	sel := b.Select(scheduleSelectColumns...).
		From(b.Table(scheduleTable)).
		Where(entsql.And(
			entsql.EQ("user_id", userID),
			entsql.EQ("kind", string(kind)),
			entsql.EQ("entry_key", key),
		))
	query, args := sel.Query()

	e, err := scanEntry(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get schedule entry: %w", err)
	}
	return &e, nil
}

// UpsertEntry creates or replaces the entry.
func (r *ScheduleRepo) UpsertEntry(ctx context.Context, e spacedrep.Entry) error {
	query, args := builder().Insert(scheduleTable).
		Columns(scheduleSelectColumns...).
		Values(e.UserID, string(e.Kind), e.Key, e.Stage, toMillis(e.NextDue),
			e.ConsecutiveHits, boolInt(e.Graduated), toMillis(e.LastReview)).
		OnConflict(
			entsql.ConflictColumns("user_id", "kind", "entry_key"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert schedule entry: %w", err)
	}
	return nil
}

func (r *ScheduleRepo) query(ctx context.Context, sel *entsql.Selector) ([]spacedrep.Entry, error) {
	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query schedule: %w", err)
	}
	defer rows.Close()

	var out []spacedrep.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan schedule entry: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schedule: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (spacedrep.Entry, error) {
	var (
		e                   spacedrep.Entry
		kind                string
		graduated           int
		nextDue, lastReview int64
	)
	if err := s.Scan(&e.UserID, &kind, &e.Key, &e.Stage, &nextDue,
		&e.ConsecutiveHits, &graduated, &lastReview); err != nil {
		return spacedrep.Entry{}, err
	}
	k, err := spacedrep.ParseKind(kind)
	if err != nil {
		return spacedrep.Entry{}, err
	}
	e.Kind = k
	e.Graduated = graduated != 0
	e.NextDue = fromMillis(nextDue)
	e.LastReview = fromMillis(lastReview)
	return e, nil
}
