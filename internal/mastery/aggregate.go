package mastery

import (
	"context"
	"math"
	"time"
)

// Aggregator computes item mastery from attempt history. It holds no state
// beyond its policy and is safe for concurrent use.
type Aggregator struct {
	cfg    Config
	weight WeightFunc
}

// NewAggregator creates an aggregator. A nil weight uses exponential decay
// with the configured half-life.
func NewAggregator(cfg Config, weight WeightFunc) *Aggregator {
	if weight == nil {
		weight = ExponentialDecay(cfg.HalfLife)
	}
	return &Aggregator{cfg: cfg, weight: weight}
}

// HintPenalty returns the penalty for one correct attempt. The cap applies
// per attempt, before attempts are summed.
func (a *Aggregator) HintPenalty(hintsUsed int) float64 {
	if hintsUsed <= 0 {
		return 0
	}
	return math.Min(a.cfg.MaxHintPenalty, float64(hintsUsed)*a.cfg.HintPenaltyPerHint)
}

// ComputeFromScratch reads the item's full history and folds every attempt.
func (a *Aggregator) ComputeFromScratch(ctx context.Context, ledger Ledger, itemID string, difficulty float64, now time.Time) (*ItemRecord, error) {
	if err := validateLookup(itemID, difficulty); err != nil {
		return nil, err
	}
	attempts, err := ledger.AttemptsForItem(ctx, itemID)
	if err != nil {
		return nil, &LedgerError{Op: "attempts", ItemID: itemID, Err: err}
	}
	base := ItemRecord{ItemID: itemID}
	rec, err := a.Fold(base, attempts, difficulty, now)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Fold adds attempts to the running sums of base and returns the new record.
// Each attempt's weight is frozen at now. base is not modified.
func (a *Aggregator) Fold(base ItemRecord, attempts []Attempt, difficulty float64, now time.Time) (*ItemRecord, error) {
	rec := base
	for i := range attempts {
		at := &attempts[i]
		if err := validateAttempt(base.ItemID, at); err != nil {
			return nil, err
		}
		w := a.weight(at.Timestamp, now)
		v := w * difficulty
		rec.WeightedTotalSum += v
		rec.WeightedAttempts += w
		if at.Correct {
			rec.WeightedCorrectSum += v
			rec.HintPenalty += a.HintPenalty(at.HintsUsed)
		}
		rec.AttemptCount++
	}
	rec.Score = itemScore(rec.WeightedCorrectSum, rec.WeightedTotalSum, rec.HintPenalty)
	rec.LastUpdated = now
	return &rec, nil
}

func validateLookup(itemID string, difficulty float64) error {
	if itemID == "" {
		return &InvalidInputError{Field: "item id", Reason: "empty"}
	}
	if difficulty <= 0 || math.IsNaN(difficulty) || math.IsInf(difficulty, 0) {
		return &InvalidInputError{Field: "difficulty", Reason: "must be a positive finite number"}
	}
	return nil
}

func validateAttempt(itemID string, at *Attempt) error {
	reason := ""
	switch {
	case at.ItemID != itemID:
		reason = "belongs to item " + at.ItemID
	case at.HintsUsed < 0:
		reason = "negative hints used"
	case at.LatencyMs < 0:
		reason = "negative latency"
	case at.Timestamp.IsZero():
		reason = "missing timestamp"
	default:
		return nil
	}
	return &InvalidAttemptError{AttemptID: at.ID, ItemID: itemID, Reason: reason}
}
