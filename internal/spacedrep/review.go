package spacedrep

import (
	"context"
	"fmt"
	"time"
)

// Kind says whether a schedule entry tracks a whole cell or a single item.
type Kind string

const (
	KindCell Kind = "cell"
	KindItem Kind = "item"
)

// ParseKind converts a stored kind string.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindCell, KindItem:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown schedule kind %q", s)
}

// Entry is the spaced repetition state for one cell or item of one user.
type Entry struct {
	UserID          string    `json:"user_id"`
	Key             string    `json:"key"` // cell key or item ID, per Kind
	Kind            Kind      `json:"kind"`
	Stage           int       `json:"stage"`
	NextDue         time.Time `json:"next_due"`
	ConsecutiveHits int       `json:"consecutive_hits"`
	Graduated       bool      `json:"graduated"`
	LastReview      time.Time `json:"last_review"`
}

// IsDue returns true if the entry is due for review (at or past NextDue).
func (e *Entry) IsDue(now time.Time) bool {
	return !now.Before(e.NextDue)
}

// OverdueDays returns how many days past due the entry is. Returns 0 if not yet due.
func (e *Entry) OverdueDays(now time.Time) float64 {
	if now.Before(e.NextDue) {
		return 0
	}
	return now.Sub(e.NextDue).Hours() / 24.0
}

// CurrentIntervalDays returns the current interval in days.
func (e *Entry) CurrentIntervalDays() int {
	return IntervalDays(e.Stage, e.Graduated)
}

// DaysUntilReview returns the number of days until the next review.
// Returns 0 if already due.
func (e *Entry) DaysUntilReview(now time.Time) int {
	if e.IsDue(now) {
		return 0
	}
	return int(e.NextDue.Sub(now).Hours()/24.0) + 1
}

// ScheduleRepo persists schedule entries.
type ScheduleRepo interface {
	// DueEntriesBefore returns the user's entries with NextDue at or before t.
	DueEntriesBefore(ctx context.Context, userID string, t time.Time) ([]Entry, error)

	// GetEntry returns the entry, or nil if none exists.
	GetEntry(ctx context.Context, userID string, kind Kind, key string) (*Entry, error)

	// UpsertEntry creates or replaces the entry.
	UpsertEntry(ctx context.Context, e Entry) error
}
