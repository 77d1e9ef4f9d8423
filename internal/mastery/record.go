package mastery

import (
	"math"
	"slices"
	"time"
)

// NeutralScore is reported when there is no evidence either way.
const NeutralScore = 50.0

// ItemRecord is the cached mastery aggregate for one item. It carries the
// running sums, not just the score, so new attempts can be folded in without
// re-reading history. Records are never mutated after they are stored.
type ItemRecord struct {
	ItemID             string
	Score              float64 // 0–100
	AttemptCount       int
	WeightedAttempts   float64 // Σ recency weight
	WeightedCorrectSum float64 // Σ weight × difficulty over correct attempts
	WeightedTotalSum   float64 // Σ weight × difficulty over all attempts
	HintPenalty        float64 // Σ per-attempt capped hint penalty
	LastUpdated        time.Time
}

// CellRecord is the cached mastery aggregate for one cell.
type CellRecord struct {
	CellKey            string
	Score              float64
	TotalAttemptCount  int
	WeightedAttemptSum float64
	Members            []string // sorted item IDs
	LastUpdated        time.Time
}

func (r *CellRecord) hasMember(itemID string) bool {
	_, found := slices.BinarySearch(r.Members, itemID)
	return found
}

// itemScore derives the score from running sums.
func itemScore(weightedCorrect, weightedTotal, hintPenalty float64) float64 {
	if weightedTotal <= 0 {
		return NeutralScore
	}
	raw := 100*weightedCorrect/weightedTotal - hintPenalty
	return round2(clamp(raw, 0, 100))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
