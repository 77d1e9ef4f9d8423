package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/conjuga/internal/catalog"
	"github.com/abhisek/conjuga/internal/mastery"
	"github.com/abhisek/conjuga/internal/ui/components"
)

var masteryCmd = &cobra.Command{
	Use:   "mastery",
	Short: "Inspect mastery scores",
}

var masteryItemCmd = &cobra.Command{
	Use:   "item <item-id>",
	Short: "Show the mastery of one item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, s, closeAll, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer closeAll()

		rec, err := s.CatalogItemMastery(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s\n", rec.ItemID)
		fmt.Println(strings.Repeat("─", 48))
		fmt.Printf("Score       %s\n", components.NewScoreBar(rec.Score, 30, true).View())
		fmt.Printf("Attempts    %d (weighted %.2f)\n", rec.AttemptCount, rec.WeightedAttempts)
		fmt.Printf("Correct     %.2f / %.2f\n", rec.WeightedCorrectSum, rec.WeightedTotalSum)
		fmt.Printf("Hint cost   %.2f\n", rec.HintPenalty)
		return nil
	},
}

var masteryCellCmd = &cobra.Command{
	Use:   "cell <mood/tense/person>",
	Short: "Show the mastery of one cell and its items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cell, err := catalog.ParseCellKey(args[0])
		if err != nil {
			return err
		}

		_, s, closeAll, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer closeAll()

		ctx := cmd.Context()
		rec, err := s.CatalogCellMastery(ctx, cell)
		if err != nil {
			return err
		}

		fmt.Printf("%s  %s\n", rec.CellKey, components.NewScoreBar(rec.Score, 30, true).View())
		fmt.Printf("%d attempts over %d items\n\n", rec.TotalAttemptCount, len(rec.Members))

		fmt.Printf("%-36s  %8s  %s\n", "Item", "Attempts", "Score")
		fmt.Println(strings.Repeat("─", 80))
		for _, id := range rec.Members {
			item, err := s.CatalogItemMastery(ctx, id)
			if err != nil {
				return err
			}
			fmt.Printf("%-36s  %8d  %s\n", id, item.AttemptCount, components.NewScoreBar(item.Score, 24, true).View())
		}
		return nil
	},
}

var masteryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every practised cell",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, s, closeAll, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer closeAll()

		var practised []*mastery.CellRecord
		for _, cell := range catalog.AllCells() {
			rec, err := s.CatalogCellMastery(cmd.Context(), cell)
			if err != nil {
				return err
			}
			if rec.TotalAttemptCount > 0 {
				practised = append(practised, rec)
			}
		}
		if len(practised) == 0 {
			fmt.Println("No attempts recorded yet.")
			return nil
		}

		fmt.Printf("%-34s  %8s  %s\n", "Cell", "Attempts", "Score")
		fmt.Println(strings.Repeat("─", 80))
		for _, rec := range practised {
			fmt.Printf("%-34s  %8d  %s\n", rec.CellKey, rec.TotalAttemptCount, components.NewScoreBar(rec.Score, 24, true).View())
		}
		fmt.Printf("\n%d cells\n", len(practised))
		return nil
	},
}

func init() {
	masteryCmd.AddCommand(masteryItemCmd)
	masteryCmd.AddCommand(masteryCellCmd)
	masteryCmd.AddCommand(masteryListCmd)
}
