package spacedrep

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/abhisek/conjuga/internal/logging"
)

// Urgency ranks how pressing a review is.
type Urgency int

const (
	UrgencyLater   Urgency = 1
	UrgencySoon    Urgency = 2
	UrgencyUrgent  Urgency = 3
	UrgencyOverdue Urgency = 4
)

func (u Urgency) String() string {
	switch u {
	case UrgencyOverdue:
		return "overdue"
	case UrgencyUrgent:
		return "urgent"
	case UrgencySoon:
		return "soon"
	case UrgencyLater:
		return "later"
	}
	return fmt.Sprintf("urgency(%d)", int(u))
}

const (
	DefaultUrgentWithin = 6 * time.Hour
	DefaultSoonWithin   = 24 * time.Hour
	DefaultHorizon      = 48 * time.Hour
)

// QueueConfig holds the urgency thresholds and how far ahead the queue looks.
type QueueConfig struct {
	UrgentWithin time.Duration
	SoonWithin   time.Duration
	Horizon      time.Duration
}

// DefaultQueueConfig returns a QueueConfig with sensible defaults.
func DefaultQueueConfig() QueueConfig {
	return QueueConfig{
		UrgentWithin: DefaultUrgentWithin,
		SoonWithin:   DefaultSoonWithin,
		Horizon:      DefaultHorizon,
	}
}

// Validate checks that the thresholds are ordered.
func (c QueueConfig) Validate() error {
	if c.UrgentWithin <= 0 {
		return fmt.Errorf("urgent window must be positive, got %s", c.UrgentWithin)
	}
	if c.SoonWithin <= c.UrgentWithin {
		return fmt.Errorf("soon window %s must exceed urgent window %s", c.SoonWithin, c.UrgentWithin)
	}
	if c.Horizon < 0 {
		return fmt.Errorf("horizon must be >= 0, got %s", c.Horizon)
	}
	return nil
}

// Classify returns the urgency of a review due at nextDue.
func (c QueueConfig) Classify(nextDue, now time.Time) Urgency {
	until := nextDue.Sub(now)
	switch {
	case until <= 0:
		return UrgencyOverdue
	case until < c.UrgentWithin:
		return UrgencyUrgent
	case until < c.SoonWithin:
		return UrgencySoon
	default:
		return UrgencyLater
	}
}

// MasteryLookup supplies the current mastery score for a scheduled key.
type MasteryLookup interface {
	MasteryScore(ctx context.Context, kind Kind, key string) (float64, error)
}

// QueueEntry is one ranked review.
type QueueEntry struct {
	Key              string
	Kind             Kind
	Urgency          Urgency
	MasteryScore     float64
	NextDue          time.Time
	MasteryDefaulted bool // lookup failed; score is the neutral default
}

// neutralMastery stands in for a score that could not be looked up.
const neutralMastery = 50.0

// Queue builds the due-review queue on demand. Nothing is persisted.
type Queue struct {
	repo    ScheduleRepo
	mastery MasteryLookup
	cfg     QueueConfig
	logger  *slog.Logger
}

// NewQueue creates a queue builder.
func NewQueue(repo ScheduleRepo, mastery MasteryLookup, cfg QueueConfig, logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{repo: repo, mastery: mastery, cfg: cfg, logger: logger}
}

// Build returns the user's reviews due within the horizon, most urgent
// first and, among equally urgent reviews, weakest first. A failed mastery
// lookup never drops an entry; it ranks with the neutral score instead.
func (q *Queue) Build(ctx context.Context, userID string, now time.Time) ([]QueueEntry, error) {
	entries, err := q.repo.DueEntriesBefore(ctx, userID, now.Add(q.cfg.Horizon))
	if err != nil {
		return nil, fmt.Errorf("due entries before %s: %w", now.Add(q.cfg.Horizon).Format(time.RFC3339), err)
	}

	out := make([]QueueEntry, 0, len(entries))
	for _, e := range entries {
		qe := QueueEntry{
			Key:     e.Key,
			Kind:    e.Kind,
			Urgency: q.cfg.Classify(e.NextDue, now),
			NextDue: e.NextDue,
		}
		score, err := q.mastery.MasteryScore(ctx, e.Kind, e.Key)
		if err != nil {
			q.logger.Warn("mastery lookup failed, using neutral score",
				slog.String(logging.FieldUserID, userID),
				slog.String(logging.FieldKey, e.Key),
				logging.Err(err))
			score = neutralMastery
			qe.MasteryDefaulted = true
		}
		qe.MasteryScore = score
		out = append(out, qe)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Urgency != b.Urgency {
			return a.Urgency > b.Urgency
		}
		if a.MasteryScore != b.MasteryScore {
			return a.MasteryScore < b.MasteryScore
		}
		if !a.NextDue.Equal(b.NextDue) {
			return a.NextDue.Before(b.NextDue)
		}
		return a.Key < b.Key
	})
	return out, nil
}
