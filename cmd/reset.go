package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset learner data",
}

var resetCellCmd = &cobra.Command{
	Use:   "cell <mood/tense/person>",
	Short: "Restart a cell's review schedule at the first interval",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, s, closeAll, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer closeAll()

		e, err := s.ResetReview(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s reset, next due %s\n", e.Key, e.NextDue.Local().Format("2006-01-02 15:04"))
		return nil
	},
}

var resetItemCmd = &cobra.Command{
	Use:   "item <item-id>",
	Short: "Delete every recorded attempt for an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return fmt.Errorf("refusing to delete attempts without --yes")
		}

		a, s, closeAll, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer closeAll()

		n, err := a.Store.Attempts().DeleteForItem(cmd.Context(), s.UserID(), args[0])
		if err != nil {
			return err
		}
		s.NotifyNewAttempt(args[0])
		fmt.Printf("Deleted %d attempts for %s\n", n, args[0])
		return nil
	},
}

func init() {
	resetItemCmd.Flags().Bool("yes", false, "Confirm deletion")

	resetCmd.AddCommand(resetCellCmd)
	resetCmd.AddCommand(resetItemCmd)
}
