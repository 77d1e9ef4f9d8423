package components

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestScoreBar_Filled(t *testing.T) {
	tests := []struct {
		score float64
		width int
		want  int
	}{
		{0, 20, 0},
		{50, 20, 10},
		{100, 20, 20},
		{150, 20, 20},
		{-5, 20, 0},
		{100, 1, 4}, // minimum width
	}
	for _, tt := range tests {
		got := NewScoreBar(tt.score, tt.width, false).Filled()
		if got != tt.want {
			t.Errorf("Filled(score=%v, width=%d) = %d, want %d", tt.score, tt.width, got, tt.want)
		}
	}
}

func TestScoreBar_View(t *testing.T) {
	bar := NewScoreBar(76.26, 10, true)
	out := bar.View()
	if w := lipgloss.Width(out); w != 10+8 {
		t.Errorf("width = %d, want 18", w)
	}
	if !strings.Contains(out, "76.26") {
		t.Errorf("View() = %q, missing score", out)
	}
}
