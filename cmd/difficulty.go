package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/conjuga/internal/ui/theme"
)

var difficultyCmd = &cobra.Command{
	Use:   "difficulty",
	Short: "Evaluate the learner's drill difficulty",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, s, closeAll, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer closeAll()

		p, err := s.EvaluateDifficultyForUser(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Level       %s (score %.2f, confidence %.2f)\n",
			theme.Level(p.Level).Render(p.Level.String()), p.Score, p.Confidence)
		if !p.ShouldAdjust {
			fmt.Println(theme.Hint.Render("No signal strong enough to adjust; keeping defaults."))
		}

		if len(p.Factors) > 0 {
			fmt.Printf("\n%-18s  %6s  %s\n", "Factor", "Delta", "Confidence")
			fmt.Println(strings.Repeat("─", 40))
			for _, f := range p.Factors {
				fmt.Printf("%-18s  %+6.2f  %.2f\n", f.Name, f.Delta, f.Confidence)
			}
		}

		a := p.Adjustments
		fmt.Println()
		fmt.Printf("%-20s %s\n", "Verbs", a.VerbComplexity)
		fmt.Printf("%-20s %s\n", "Hints", a.HintAvailability)
		fmt.Printf("%-20s %s\n", "Time pressure", a.TimePressure)
		fmt.Printf("%-20s %.0f%%\n", "Error tolerance", a.ErrorTolerance*100)
		fmt.Printf("%-20s %d items\n", "Round size", a.PracticeIntensity)
		fmt.Printf("%-20s %s\n", "Feedback", a.FeedbackDetail)
		return nil
	},
}
