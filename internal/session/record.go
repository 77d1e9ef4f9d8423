package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/abhisek/conjuga/internal/catalog"
	"github.com/abhisek/conjuga/internal/logging"
	"github.com/abhisek/conjuga/internal/mastery"
	"github.com/abhisek/conjuga/internal/spacedrep"
	"github.com/abhisek/conjuga/internal/store"
)

// Answer is a graded attempt as reported by the grader.
type Answer struct {
	ItemID    string
	Correct   bool
	HintsUsed int
	LatencyMs int
	ErrorTags []string
	Timestamp time.Time // zero = the session clock
}

// Outcome is the result of recording one answer.
type Outcome struct {
	Attempt  mastery.Attempt
	Item     *mastery.ItemRecord
	Cell     *mastery.CellRecord
	Review   *spacedrep.Entry // schedule entry after the answer, nil if untracked
	Enrolled bool             // the cell was newly enrolled for review
}

// RecordAttempt appends the answer to the ledger, invalidates the affected
// cache entries, refreshes item and cell mastery and advances the cell's
// review schedule. Once the append succeeds the attempt stays recorded; a
// later mastery failure is returned together with the partial Outcome.
// Schedule failures are logged and never fail the call.
func (s *Session) RecordAttempt(ctx context.Context, ans Answer) (*Outcome, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if s.rec == nil {
		return nil, ErrNoRecorder
	}
	item, ok := s.catalog.Item(ans.ItemID)
	if !ok {
		return nil, &mastery.InvalidInputError{Field: "item id", Reason: fmt.Sprintf("%q not in catalog", ans.ItemID)}
	}

	now := ans.Timestamp
	if now.IsZero() {
		now = s.clock()
	}

	attempt, err := s.rec.Append(ctx, store.AttemptInput{
		UserID:    s.userID,
		ItemID:    item.ID,
		Correct:   ans.Correct,
		HintsUsed: ans.HintsUsed,
		LatencyMs: ans.LatencyMs,
		Timestamp: now,
		ErrorTags: ans.ErrorTags,
	})
	if err != nil {
		return nil, fmt.Errorf("record attempt: %w", err)
	}
	s.NotifyNewAttempt(item.ID)

	cell := item.Cell()
	s.mu.Lock()
	s.progress.record(cell.String(), ans.Correct)
	s.mu.Unlock()

	out := &Outcome{Attempt: attempt}
	out.Item, err = s.cache.Get(ctx, item.ID, item.DifficultyWeight, now)
	if err != nil {
		return out, fmt.Errorf("item mastery after attempt: %w", err)
	}
	out.Cell, err = s.cache.Cell(ctx, s.catalog.ItemsInCell(cell), cell.String(), now)
	if err != nil {
		return out, fmt.Errorf("cell mastery after attempt: %w", err)
	}

	s.updateSchedule(ctx, out, cell.String(), ans.Correct, now)

	s.logger.Debug("attempt recorded",
		slog.String(logging.FieldItemID, item.ID),
		slog.String(logging.FieldCell, cell.String()),
		slog.Bool("correct", ans.Correct),
		slog.Float64("item_score", out.Item.Score),
		slog.Float64("cell_score", out.Cell.Score))
	return out, nil
}

// updateSchedule treats an answer on a due cell as its review, restarts a
// lapsed cell that was answered wrong, and enrolls a cell once its mastery
// reaches the threshold.
func (s *Session) updateSchedule(ctx context.Context, out *Outcome, cellKey string, correct bool, now time.Time) {
	warn := func(msg string, err error) {
		s.logger.Warn(msg, slog.String(logging.FieldCell, cellKey), logging.Err(err))
	}

	entry, err := s.schedule.GetEntry(ctx, s.userID, spacedrep.KindCell, cellKey)
	if err != nil {
		warn("schedule lookup failed", err)
		return
	}

	switch {
	case entry == nil:
	case !entry.IsDue(now):
		out.Review = entry
	case !correct && entry.OverdueDays(now) > float64(entry.CurrentIntervalDays()):
		out.Review, err = s.scheduler.Reset(ctx, s.userID, spacedrep.KindCell, cellKey, now)
		if err != nil {
			warn("schedule reset failed", err)
			return
		}
	default:
		out.Review, err = s.scheduler.RecordReview(ctx, s.userID, spacedrep.KindCell, cellKey, correct, now)
		if err != nil {
			warn("schedule review failed", err)
			return
		}
	}

	if entry == nil && out.Cell.Score >= s.cfg.MasteredThreshold {
		out.Review, out.Enrolled, err = s.scheduler.Enroll(ctx, s.userID, spacedrep.KindCell, cellKey, now)
		if err != nil {
			warn("schedule enroll failed", err)
		}
	}
}

// Overdue returns the learner's schedule entries already due, most overdue
// first.
func (s *Session) Overdue(ctx context.Context, now time.Time) ([]spacedrep.Entry, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	return s.scheduler.Overdue(ctx, s.userID, now)
}

// ResetReview restarts the review schedule of a cell at stage 0.
func (s *Session) ResetReview(ctx context.Context, cell string) (*spacedrep.Entry, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if _, err := catalog.ParseCellKey(cell); err != nil {
		return nil, &mastery.InvalidInputError{Field: "cell key", Reason: err.Error()}
	}
	return s.scheduler.Reset(ctx, s.userID, spacedrep.KindCell, cell, s.clock())
}
