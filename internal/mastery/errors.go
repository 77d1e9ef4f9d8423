package mastery

import (
	"context"
	"errors"
	"fmt"
)

// InvalidInputError rejects a lookup whose arguments cannot produce a score.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InvalidAttemptError indicates a ledger attempt that cannot be folded into
// a score.
type InvalidAttemptError struct {
	AttemptID string
	ItemID    string
	Reason    string
}

func (e *InvalidAttemptError) Error() string {
	return fmt.Sprintf("invalid attempt %q for item %q: %s", e.AttemptID, e.ItemID, e.Reason)
}

// StaleCacheError indicates the ledger holds fewer attempts for an item than
// the cache has already folded. The cache recovers by recomputing.
type StaleCacheError struct {
	ItemID  string
	Cached  int
	Current int
}

func (e *StaleCacheError) Error() string {
	return fmt.Sprintf("cache for item %q is stale: cached %d attempts, ledger has %d", e.ItemID, e.Cached, e.Current)
}

// LedgerError wraps a failed or timed-out ledger query.
type LedgerError struct {
	Op     string
	ItemID string
	Err    error
}

func (e *LedgerError) Error() string {
	if e.ItemID != "" {
		return fmt.Sprintf("ledger %s for item %q: %v", e.Op, e.ItemID, e.Err)
	}
	return fmt.Sprintf("ledger %s: %v", e.Op, e.Err)
}

func (e *LedgerError) Unwrap() error { return e.Err }

// Timeout reports whether the query ran out of time.
func (e *LedgerError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// IsInvalid reports whether err rejects the caller's input or a ledger
// attempt, as opposed to an infrastructure failure.
func IsInvalid(err error) bool {
	var in *InvalidInputError
	var ia *InvalidAttemptError
	return errors.As(err, &in) || errors.As(err, &ia)
}
