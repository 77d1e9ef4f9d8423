package mastery

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// tableWeight returns fixed weights keyed by attempt age in hours.
func tableWeight(byAgeHours map[int]float64) WeightFunc {
	return func(at, now time.Time) float64 {
		if w, ok := byAgeHours[int(now.Sub(at).Hours())]; ok {
			return w
		}
		return 1
	}
}

func TestAggregator_NeutralPrior(t *testing.T) {
	agg := NewAggregator(DefaultConfig(), nil)
	rec, err := agg.ComputeFromScratch(context.Background(), newFakeLedger(), "ser:indicative:present:1s", 1.0, testNow)
	require.NoError(t, err)
	if rec.Score != NeutralScore {
		t.Errorf("Score = %v, want %v", rec.Score, NeutralScore)
	}
	if rec.AttemptCount != 0 {
		t.Errorf("AttemptCount = %d, want 0", rec.AttemptCount)
	}
}

func TestAggregator_ThreeAttemptScenario(t *testing.T) {
	const item = "hablar:indicative:present:1s"
	l := newFakeLedger()
	l.add(item, true, 0, testNow)
	l.add(item, true, 1, testNow.Add(-1*time.Hour))
	l.add(item, false, 0, testNow.Add(-2*time.Hour))

	agg := NewAggregator(DefaultConfig(), tableWeight(map[int]float64{0: 1.0, 1: 0.8, 2: 0.5}))
	rec, err := agg.ComputeFromScratch(context.Background(), l, item, 1.0, testNow)
	require.NoError(t, err)

	assert.InDelta(t, 2.3, rec.WeightedTotalSum, 1e-9)
	assert.InDelta(t, 1.8, rec.WeightedCorrectSum, 1e-9)
	assert.InDelta(t, 2.0, rec.HintPenalty, 1e-9)
	assert.InDelta(t, 2.3, rec.WeightedAttempts, 1e-9)
	assert.Equal(t, 76.26, rec.Score)
	assert.Equal(t, 3, rec.AttemptCount)
}

func TestAggregator_HintPenaltyBounded(t *testing.T) {
	agg := NewAggregator(DefaultConfig(), nil)
	tests := []struct {
		hints int
		want  float64
	}{
		{-1, 0},
		{0, 0},
		{1, 2},
		{4, 8},
		{5, 10},
		{50, 10},
	}
	for _, tt := range tests {
		got := agg.HintPenalty(tt.hints)
		if got != tt.want {
			t.Errorf("HintPenalty(%d) = %v, want %v", tt.hints, got, tt.want)
		}
		if got > DefaultMaxHintPenalty {
			t.Errorf("HintPenalty(%d) = %v exceeds cap", tt.hints, got)
		}
	}
}

func TestAggregator_HintsOnIncorrectAttemptsIgnored(t *testing.T) {
	const item = "ir:indicative:preterite:3s"
	l := newFakeLedger()
	l.add(item, false, 5, testNow)
	l.add(item, true, 0, testNow)

	rec, err := NewAggregator(DefaultConfig(), nil).ComputeFromScratch(context.Background(), l, item, 1.6, testNow)
	require.NoError(t, err)
	assert.Equal(t, 0.0, rec.HintPenalty)
	assert.Equal(t, 50.0, rec.Score)
}

func TestAggregator_ScoreBounds(t *testing.T) {
	agg := NewAggregator(DefaultConfig(), nil)
	const item = "tener:subjunctive:present:2s"
	patterns := [][]bool{
		{},
		{true},
		{false},
		{true, true, true, true},
		{false, false, false},
		{true, false, true, false, true},
	}
	for _, hints := range []int{0, 1, 3, 100} {
		for _, p := range patterns {
			l := newFakeLedger()
			for i, correct := range p {
				l.add(item, correct, hints, testNow.Add(-time.Duration(i)*24*time.Hour))
			}
			rec, err := agg.ComputeFromScratch(context.Background(), l, item, 1.3, testNow)
			require.NoError(t, err)
			if rec.Score < 0 || rec.Score > 100 {
				t.Errorf("hints=%d pattern=%v: Score = %v, out of [0,100]", hints, p, rec.Score)
			}
		}
	}
}

func TestAggregator_IncrementalMatchesFull(t *testing.T) {
	const item = "poder:indicative:imperfect:1p"
	agg := NewAggregator(DefaultConfig(), nil)

	history := newFakeLedger()
	outcomes := []bool{true, false, true, true, false, true, true, true}
	for i, correct := range outcomes {
		history.add(item, correct, i%3, testNow.Add(-time.Duration(len(outcomes)-i)*36*time.Hour))
	}
	all, err := history.AttemptsForItem(context.Background(), item)
	require.NoError(t, err)

	full, err := agg.Fold(ItemRecord{ItemID: item}, all, 1.3, testNow)
	require.NoError(t, err)

	for split := 0; split <= len(all); split++ {
		prefix, err := agg.Fold(ItemRecord{ItemID: item}, all[:split], 1.3, testNow)
		require.NoError(t, err)
		inc, err := agg.Fold(*prefix, all[split:], 1.3, testNow)
		require.NoError(t, err)

		if math.Abs(inc.Score-full.Score) > 0.01 {
			t.Errorf("split %d: incremental Score = %v, full = %v", split, inc.Score, full.Score)
		}
		assert.Equal(t, full.AttemptCount, inc.AttemptCount)
		assert.InDelta(t, full.WeightedTotalSum, inc.WeightedTotalSum, 1e-9)
	}
}

func TestAggregator_RejectsInvalidInput(t *testing.T) {
	agg := NewAggregator(DefaultConfig(), nil)
	l := newFakeLedger()

	_, err := agg.ComputeFromScratch(context.Background(), l, "", 1.0, testNow)
	assert.True(t, IsInvalid(err), "empty item id: err = %v", err)

	_, err = agg.ComputeFromScratch(context.Background(), l, "x", 0, testNow)
	assert.True(t, IsInvalid(err), "zero difficulty: err = %v", err)

	_, err = agg.ComputeFromScratch(context.Background(), l, "x", math.NaN(), testNow)
	assert.True(t, IsInvalid(err), "NaN difficulty: err = %v", err)
}

func TestAggregator_RejectsMalformedAttempt(t *testing.T) {
	agg := NewAggregator(DefaultConfig(), nil)
	tests := []struct {
		name    string
		attempt Attempt
	}{
		{"wrong item", Attempt{ID: "a", ItemID: "other", Timestamp: testNow}},
		{"negative hints", Attempt{ID: "a", ItemID: "x", HintsUsed: -1, Timestamp: testNow}},
		{"negative latency", Attempt{ID: "a", ItemID: "x", LatencyMs: -5, Timestamp: testNow}},
		{"no timestamp", Attempt{ID: "a", ItemID: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := agg.Fold(ItemRecord{ItemID: "x"}, []Attempt{tt.attempt}, 1.0, testNow)
			var ia *InvalidAttemptError
			require.ErrorAs(t, err, &ia)
			assert.Equal(t, "a", ia.AttemptID)
		})
	}
}

func TestAggregator_LedgerErrorWrapped(t *testing.T) {
	l := newFakeLedger()
	l.failAll = true
	_, err := NewAggregator(DefaultConfig(), nil).ComputeFromScratch(context.Background(), l, "x", 1.0, testNow)
	var le *LedgerError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "attempts", le.Op)
	assert.False(t, IsInvalid(err))
}

func TestExponentialDecay(t *testing.T) {
	w := ExponentialDecay(24 * time.Hour)
	tests := []struct {
		age  time.Duration
		want float64
	}{
		{-time.Hour, 1},
		{0, 1},
		{24 * time.Hour, 0.5},
		{48 * time.Hour, 0.25},
		{24 * 365 * 10 * time.Hour, MinRecencyWeight},
	}
	for _, tt := range tests {
		got := w(testNow.Add(-tt.age), testNow)
		assert.InDelta(t, tt.want, got, 1e-9, "age %s", tt.age)
	}
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	bad := DefaultConfig()
	bad.HalfLife = 0
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.CellConcurrency = 0
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.MaxHintPenalty = -1
	assert.Error(t, bad.Validate())
}
