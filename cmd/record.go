package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/conjuga/internal/session"
	"github.com/abhisek/conjuga/internal/ui/theme"
)

var recordCmd = &cobra.Command{
	Use:   "record <item-id>",
	Short: "Record a graded attempt (item id: verb:mood:tense:person)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		correct, _ := cmd.Flags().GetBool("correct")
		hints, _ := cmd.Flags().GetInt("hints")
		latency, _ := cmd.Flags().GetInt("latency")
		tags, _ := cmd.Flags().GetStringSlice("tag")

		_, s, closeAll, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer closeAll()

		out, err := s.RecordAttempt(cmd.Context(), session.Answer{
			ItemID:    args[0],
			Correct:   correct,
			HintsUsed: hints,
			LatencyMs: latency,
			ErrorTags: tags,
		})
		if err != nil {
			return err
		}

		verdict := theme.Correct.Render("correct")
		if !correct {
			verdict = theme.Incorrect.Render("incorrect")
		}
		fmt.Printf("Recorded %s attempt #%d for %s\n", verdict, out.Attempt.Sequence, out.Attempt.ItemID)
		fmt.Println(strings.Repeat("─", 60))
		fmt.Printf("%-10s  %-32s  %s\n", "Item", out.Item.ItemID, theme.Score(out.Item.Score).Render(fmt.Sprintf("%6.2f", out.Item.Score)))
		fmt.Printf("%-10s  %-32s  %s\n", "Cell", out.Cell.CellKey, theme.Score(out.Cell.Score).Render(fmt.Sprintf("%6.2f", out.Cell.Score)))

		switch {
		case out.Enrolled:
			fmt.Printf("\nCell enrolled for review, first due %s\n", out.Review.NextDue.Local().Format("2006-01-02 15:04"))
		case out.Review != nil:
			fmt.Printf("\nReview stage %d, next due %s\n", out.Review.Stage, out.Review.NextDue.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}

func init() {
	recordCmd.Flags().Bool("correct", false, "The answer was correct")
	recordCmd.Flags().Int("hints", 0, "Hints used")
	recordCmd.Flags().Int("latency", 0, "Response latency in milliseconds")
	recordCmd.Flags().StringSlice("tag", nil, "Error tag from the grader (repeatable)")
}
