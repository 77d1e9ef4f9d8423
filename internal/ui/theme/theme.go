// Package theme holds the terminal palette used by the CLI reports.
package theme

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/conjuga/internal/difficulty"
	"github.com/abhisek/conjuga/internal/spacedrep"
)

// Color palette
var (
	Primary   = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Warning   = lipgloss.Color("#EAB308") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// States
var (
	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// Urgency returns the style of a due-queue urgency band.
func Urgency(u spacedrep.Urgency) lipgloss.Style {
	switch u {
	case spacedrep.UrgencyOverdue:
		return lipgloss.NewStyle().Foreground(Error).Bold(true)
	case spacedrep.UrgencyUrgent:
		return lipgloss.NewStyle().Foreground(Accent).Bold(true)
	case spacedrep.UrgencySoon:
		return lipgloss.NewStyle().Foreground(Warning)
	default:
		return lipgloss.NewStyle().Foreground(TextDim)
	}
}

// Score returns the style of a 0-100 mastery score.
func Score(score float64) lipgloss.Style {
	switch {
	case score >= 85:
		return lipgloss.NewStyle().Foreground(Success)
	case score < 60:
		return lipgloss.NewStyle().Foreground(Error)
	default:
		return lipgloss.NewStyle().Foreground(Warning)
	}
}

// Level returns the style of a difficulty level.
func Level(l difficulty.Level) lipgloss.Style {
	switch {
	case l >= difficulty.LevelHard:
		return lipgloss.NewStyle().Foreground(Primary).Bold(true)
	case l <= difficulty.LevelEasy:
		return lipgloss.NewStyle().Foreground(Secondary)
	default:
		return lipgloss.NewStyle().Foreground(Text)
	}
}
