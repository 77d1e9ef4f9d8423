package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/conjuga/internal/ui/theme"
)

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "Show the prioritized review queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		overdueOnly, _ := cmd.Flags().GetBool("overdue")

		_, s, closeAll, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer closeAll()

		ctx := cmd.Context()
		now := time.Now()

		if overdueOnly {
			entries, err := s.Overdue(ctx, now)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("Nothing overdue.")
				return nil
			}
			fmt.Printf("%-34s  %5s  %8s  %s\n", "Key", "Stage", "Interval", "Overdue")
			fmt.Println(strings.Repeat("─", 70))
			for _, e := range entries {
				fmt.Printf("%-34s  %5d  %7dd  %.1fd\n", e.Key, e.Stage, e.CurrentIntervalDays(), e.OverdueDays(now))
			}
			return nil
		}

		queue, err := s.DueQueue(ctx, now)
		if err != nil {
			return err
		}
		if len(queue) == 0 {
			fmt.Println("No reviews due.")
			return nil
		}

		fmt.Printf("%-34s  %-5s  %-8s  %7s  %s\n", "Key", "Kind", "Urgency", "Mastery", "Due")
		fmt.Println(strings.Repeat("─", 80))
		for _, q := range queue {
			urgency := theme.Urgency(q.Urgency).Render(fmt.Sprintf("%-8s", q.Urgency))
			score := theme.Score(q.MasteryScore).Render(fmt.Sprintf("%7.2f", q.MasteryScore))
			if q.MasteryDefaulted {
				score = theme.Hint.Render(fmt.Sprintf("%7s", "n/a"))
			}
			fmt.Printf("%-34s  %-5s  %s  %s  %s\n",
				q.Key, q.Kind, urgency, score, q.NextDue.Local().Format("2006-01-02 15:04"))
		}
		fmt.Printf("\n%d reviews\n", len(queue))
		return nil
	},
}

func init() {
	dueCmd.Flags().Bool("overdue", false, "Only list reviews already past due, most overdue first")
}
