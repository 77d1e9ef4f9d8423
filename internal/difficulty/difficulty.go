// Package difficulty turns recent practice signals into a difficulty level
// and the drill adjustments that go with it.
package difficulty

import "math"

// FactorName identifies a signal that moved the difficulty score.
type FactorName string

const (
	FactorHighAccuracy   FactorName = "high_accuracy"
	FactorLowAccuracy    FactorName = "low_accuracy"
	FactorFastResponses  FactorName = "fast_responses"
	FactorSlowResponses  FactorName = "slow_responses"
	FactorStrongMastery  FactorName = "strong_mastery"
	FactorWeakMastery    FactorName = "weak_mastery"
	FactorHotStreak      FactorName = "hot_streak"
	FactorDecliningTrend FactorName = "declining_trend"
)

// Factor is one triggered signal and its contribution.
type Factor struct {
	Name       FactorName `json:"name"`
	Delta      float64    `json:"delta"`
	Confidence float64    `json:"confidence"`
}

// Signals summarise the learner's recent practice.
type Signals struct {
	Samples           int     // attempts the signals were computed from
	Accuracy          float64 // percent correct, 0–100
	AvgLatencyMs      float64
	MasteredCells     int
	StrugglingCells   int
	Streak            int     // current run of correct answers
	ErrorCorrectRatio float64 // errors / correct over the trend window
}

// Profile is the evaluator's verdict.
type Profile struct {
	Level        Level       `json:"level"`
	Score        float64     `json:"score"` // unrounded, clamped to [1,5]
	Adjustments  Adjustments `json:"adjustments"`
	Confidence   float64     `json:"confidence"`
	Factors      []Factor    `json:"factors"`
	ShouldAdjust bool        `json:"should_adjust"`
}

// HasFactor reports whether the named factor triggered.
func (p Profile) HasFactor(name FactorName) bool {
	for _, f := range p.Factors {
		if f.Name == name {
			return true
		}
	}
	return false
}

const baseScore = float64(LevelNormal)

// Evaluate scores the signals additively starting from Normal. Attempt-based
// signals are ignored when Samples is zero and the mastery ratio is ignored
// when no cell is mastered or struggling.
func Evaluate(s Signals, cfg Config) Profile {
	score := baseScore
	var factors []Factor
	add := func(name FactorName, delta, confidence float64) {
		score += delta
		factors = append(factors, Factor{Name: name, Delta: delta, Confidence: confidence})
	}

	if s.Samples > 0 {
		switch {
		case s.Accuracy > cfg.HighAccuracy:
			add(FactorHighAccuracy, 0.5, 0.3)
		case s.Accuracy < cfg.LowAccuracy:
			add(FactorLowAccuracy, -0.5, 0.3)
		}

		switch {
		case s.AvgLatencyMs < cfg.FastLatencyMs:
			add(FactorFastResponses, 0.3, 0.2)
		case s.AvgLatencyMs > cfg.SlowLatencyMs:
			add(FactorSlowResponses, -0.3, 0.2)
		}
	}

	if total := s.MasteredCells + s.StrugglingCells; total > 0 {
		ratio := float64(s.MasteredCells) / float64(total)
		switch {
		case ratio >= cfg.StrongMasteryRatio:
			add(FactorStrongMastery, 0.2, 0.2)
		case ratio <= cfg.WeakMasteryRatio:
			add(FactorWeakMastery, -0.3, 0.2)
		}
	}

	if s.Streak >= cfg.HotStreak {
		add(FactorHotStreak, 0.2, 0.15)
	}

	if s.Samples > 0 && s.ErrorCorrectRatio >= cfg.DecliningRatio {
		add(FactorDecliningTrend, -0.25, 0.15)
	}

	score = math.Max(1, math.Min(5, score))
	level := Level(math.Round(score))

	var confidence float64
	for _, f := range factors {
		confidence += f.Confidence
	}

	p := Profile{
		Level:        level,
		Score:        math.Round(score*100) / 100,
		Adjustments:  AdjustmentsFor(level),
		Confidence:   math.Min(1, math.Round(confidence*100)/100),
		Factors:      factors,
		ShouldAdjust: len(factors) > 0,
	}
	applyOverrides(&p)
	return p
}

// applyOverrides relaxes the table adjustments for a struggling learner
// regardless of level.
func applyOverrides(p *Profile) {
	if p.HasFactor(FactorSlowResponses) {
		p.Adjustments.TimePressure = TimeRelaxed
	}
	if p.HasFactor(FactorLowAccuracy) {
		p.Adjustments.HintAvailability = HintsGenerous
		p.Adjustments.FeedbackDetail = FeedbackDetailed
	}
}
