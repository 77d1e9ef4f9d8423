package mastery

import (
	"context"
	"time"
)

// Attempt is one graded practice attempt. Attempts are immutable once the
// ledger records them; this package only reads them.
type Attempt struct {
	ID        string
	Sequence  int64 // ledger order
	ItemID    string
	UserID    string
	Correct   bool
	HintsUsed int
	LatencyMs int
	Timestamp time.Time
	ErrorTags []string
}

// Ledger is the append-only attempt history of a single learner. All item
// queries return attempts in ledger order.
type Ledger interface {
	// AttemptsForItem returns every attempt for the item.
	AttemptsForItem(ctx context.Context, itemID string) ([]Attempt, error)

	// AttemptsForItemFrom returns the item's attempts after skipping the
	// first offset in ledger order.
	AttemptsForItemFrom(ctx context.Context, itemID string, offset int) ([]Attempt, error)

	// AttemptCount returns the number of attempts recorded for the item.
	AttemptCount(ctx context.Context, itemID string) (int, error)

	// AttemptsForUser returns the user's attempts in ledger order.
	AttemptsForUser(ctx context.Context, userID string) ([]Attempt, error)
}
