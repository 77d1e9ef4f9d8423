package spacedrep

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/abhisek/conjuga/internal/logging"
)

// Scheduler advances spaced repetition state as reviews are recorded. It
// keeps no state of its own; every entry lives in the ScheduleRepo.
type Scheduler struct {
	repo   ScheduleRepo
	logger *slog.Logger
}

// NewScheduler creates a scheduler over repo.
func NewScheduler(repo ScheduleRepo, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{repo: repo, logger: logger}
}

// Enroll starts tracking key at stage 0, first due one base interval after
// now. An existing entry is returned unchanged.
func (s *Scheduler) Enroll(ctx context.Context, userID string, kind Kind, key string, now time.Time) (*Entry, bool, error) {
	existing, err := s.repo.GetEntry(ctx, userID, kind, key)
	if err != nil {
		return nil, false, fmt.Errorf("get schedule entry %s: %w", key, err)
	}
	if existing != nil {
		return existing, false, nil
	}

	e := Entry{
		UserID:     userID,
		Key:        key,
		Kind:       kind,
		Stage:      0,
		NextDue:    nextDue(now, 0, false),
		LastReview: now,
	}
	if err := s.repo.UpsertEntry(ctx, e); err != nil {
		return nil, false, fmt.Errorf("enroll %s: %w", key, err)
	}
	s.logger.Info("schedule entry enrolled",
		slog.String(logging.FieldUserID, userID), slog.String(logging.FieldKey, key), slog.Time("next_due", e.NextDue))
	return &e, true, nil
}

// RecordReview updates the schedule after a review answer. A correct answer
// advances the stage and pushes NextDue out; an incorrect one resets the
// streak and leaves the entry due. Untracked keys are ignored and return nil.
func (s *Scheduler) RecordReview(ctx context.Context, userID string, kind Kind, key string, correct bool, now time.Time) (*Entry, error) {
	e, err := s.repo.GetEntry(ctx, userID, kind, key)
	if err != nil {
		return nil, fmt.Errorf("get schedule entry %s: %w", key, err)
	}
	if e == nil {
		return nil, nil
	}

	e.LastReview = now
	if correct {
		e.ConsecutiveHits++
		if !e.Graduated {
			e.Stage++
			if e.ConsecutiveHits >= GraduationStage {
				e.Graduated = true
			}
		}
		e.NextDue = nextDue(now, e.Stage, e.Graduated)
	} else {
		e.ConsecutiveHits = 0
	}

	if err := s.repo.UpsertEntry(ctx, *e); err != nil {
		return nil, fmt.Errorf("record review %s: %w", key, err)
	}
	return e, nil
}

// Reset re-initializes an entry at stage 0 after it lapsed.
func (s *Scheduler) Reset(ctx context.Context, userID string, kind Kind, key string, now time.Time) (*Entry, error) {
	e := Entry{
		UserID:     userID,
		Key:        key,
		Kind:       kind,
		Stage:      0,
		NextDue:    nextDue(now, 0, false),
		LastReview: now,
	}
	if err := s.repo.UpsertEntry(ctx, e); err != nil {
		return nil, fmt.Errorf("reset %s: %w", key, err)
	}
	return &e, nil
}

// Overdue returns the user's entries already due at now, most overdue first.
func (s *Scheduler) Overdue(ctx context.Context, userID string, now time.Time) ([]Entry, error) {
	entries, err := s.repo.DueEntriesBefore(ctx, userID, now)
	if err != nil {
		return nil, fmt.Errorf("due entries: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		oi, oj := entries[i].OverdueDays(now), entries[j].OverdueDays(now)
		if oi != oj {
			return oi > oj
		}
		return entries[i].Key < entries[j].Key
	})
	return entries, nil
}
