// Package components renders small reusable report widgets.
package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/conjuga/internal/ui/theme"
)

// ScoreBar displays a 0-100 mastery score as a horizontal bar.
type ScoreBar struct {
	Score     float64
	Width     int
	ShowScore bool
}

// NewScoreBar creates a new score bar.
func NewScoreBar(score float64, width int, showScore bool) ScoreBar {
	return ScoreBar{Score: score, Width: width, ShowScore: showScore}
}

// Filled returns how many of the bar's cells are filled.
func (b ScoreBar) Filled() int {
	width := b.barWidth()
	filled := int(float64(width) * b.Score / 100)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return filled
}

func (b ScoreBar) barWidth() int {
	if b.Width < 4 {
		return 4
	}
	return b.Width
}

// View renders the bar.
func (b ScoreBar) View() string {
	filled := b.Filled()
	empty := b.barWidth() - filled

	result := theme.Score(b.Score).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", empty))

	if b.ShowScore {
		result += lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %6.2f", b.Score))
	}
	return result
}
