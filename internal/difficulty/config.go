package difficulty

import "fmt"

// Config holds the signal thresholds the evaluator compares against.
type Config struct {
	HighAccuracy float64 // percent
	LowAccuracy  float64 // percent

	FastLatencyMs float64
	SlowLatencyMs float64

	StrongMasteryRatio float64 // mastered / (mastered + struggling)
	WeakMasteryRatio   float64

	HotStreak int

	DecliningRatio float64 // errors / correct over the trend window
	TrendWindow    int     // most recent attempts inspected for the trend
	RecentWindow   int     // most recent attempts used for accuracy and latency

	MasteredScore   float64 // cell score at or above which a cell counts as mastered
	StrugglingScore float64 // cell score below which a cell counts as struggling
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		HighAccuracy:       85,
		LowAccuracy:        60,
		FastLatencyMs:      3000,
		SlowLatencyMs:      8000,
		StrongMasteryRatio: 0.7,
		WeakMasteryRatio:   0.3,
		HotStreak:          8,
		DecliningRatio:     0.5,
		TrendWindow:        10,
		RecentWindow:       20,
		MasteredScore:      85,
		StrugglingScore:    60,
	}
}

// Validate checks that paired thresholds are ordered.
func (c Config) Validate() error {
	if c.LowAccuracy >= c.HighAccuracy {
		return fmt.Errorf("low accuracy %v must be below high accuracy %v", c.LowAccuracy, c.HighAccuracy)
	}
	if c.FastLatencyMs >= c.SlowLatencyMs {
		return fmt.Errorf("fast latency %v must be below slow latency %v", c.FastLatencyMs, c.SlowLatencyMs)
	}
	if c.WeakMasteryRatio >= c.StrongMasteryRatio {
		return fmt.Errorf("weak mastery ratio %v must be below strong ratio %v", c.WeakMasteryRatio, c.StrongMasteryRatio)
	}
	if c.StrugglingScore > c.MasteredScore {
		return fmt.Errorf("struggling score %v must not exceed mastered score %v", c.StrugglingScore, c.MasteredScore)
	}
	if c.HotStreak < 1 || c.TrendWindow < 1 || c.RecentWindow < 1 {
		return fmt.Errorf("streak and window sizes must be >= 1")
	}
	return nil
}
