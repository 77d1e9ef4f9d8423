package mastery

import (
	"fmt"
	"math"
	"time"
)

const (
	// DefaultHintPenaltyPerHint is the score penalty per hint on a correct attempt.
	DefaultHintPenaltyPerHint = 2.0

	// DefaultMaxHintPenalty caps the penalty a single attempt can contribute.
	DefaultMaxHintPenalty = 10.0

	// DefaultHalfLife is the age at which an attempt counts half as much.
	DefaultHalfLife = 14 * 24 * time.Hour

	// DefaultLedgerTimeout bounds each ledger query issued by the cache.
	DefaultLedgerTimeout = 2 * time.Second

	// DefaultCellConcurrency bounds parallel item lookups during a cell recompute.
	DefaultCellConcurrency = 4
)

// Config holds the scoring policy and cache tuning.
type Config struct {
	HintPenaltyPerHint float64
	MaxHintPenalty     float64
	HalfLife           time.Duration
	LedgerTimeout      time.Duration // 0 = caller's context only
	CellConcurrency    int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		HintPenaltyPerHint: DefaultHintPenaltyPerHint,
		MaxHintPenalty:     DefaultMaxHintPenalty,
		HalfLife:           DefaultHalfLife,
		LedgerTimeout:      DefaultLedgerTimeout,
		CellConcurrency:    DefaultCellConcurrency,
	}
}

// Validate checks that the policy values are usable.
func (c Config) Validate() error {
	if c.HintPenaltyPerHint < 0 || math.IsNaN(c.HintPenaltyPerHint) {
		return fmt.Errorf("hint penalty per hint must be >= 0, got %v", c.HintPenaltyPerHint)
	}
	if c.MaxHintPenalty < 0 || math.IsNaN(c.MaxHintPenalty) {
		return fmt.Errorf("max hint penalty must be >= 0, got %v", c.MaxHintPenalty)
	}
	if c.HalfLife <= 0 {
		return fmt.Errorf("half-life must be positive, got %s", c.HalfLife)
	}
	if c.LedgerTimeout < 0 {
		return fmt.Errorf("ledger timeout must be >= 0, got %s", c.LedgerTimeout)
	}
	if c.CellConcurrency < 1 {
		return fmt.Errorf("cell concurrency must be >= 1, got %d", c.CellConcurrency)
	}
	return nil
}
