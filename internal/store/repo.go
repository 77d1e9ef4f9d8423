package store

import (
	"time"
)

// AttemptInput is a graded attempt to append to the ledger.
type AttemptInput struct {
	UserID    string
	ItemID    string
	Correct   bool
	HintsUsed int
	LatencyMs int
	Timestamp time.Time
	ErrorTags []string
}

// AttemptSummary aggregates a user's ledger.
type AttemptSummary struct {
	Total   int
	Correct int
	Items   int // distinct items attempted
	First   time.Time
	Last    time.Time
}

// Accuracy returns the percentage of correct attempts, or 0 with none.
func (s AttemptSummary) Accuracy() float64 {
	if s.Total == 0 {
		return 0
	}
	return 100 * float64(s.Correct) / float64(s.Total)
}

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
