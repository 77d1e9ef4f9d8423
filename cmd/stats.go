package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/conjuga/internal/catalog"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, s, closeAll, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer closeAll()

		ctx := cmd.Context()
		sum, err := a.Store.Attempts().Summary(ctx, s.UserID())
		if err != nil {
			return err
		}
		entries, err := a.Store.Schedule().All(ctx, s.UserID())
		if err != nil {
			return err
		}

		fmt.Printf("Learner %s\n", s.UserID())
		fmt.Println(strings.Repeat("─", 40))
		fmt.Printf("%-18s %d\n", "Attempts", sum.Total)
		fmt.Printf("%-18s %d (%.1f%%)\n", "Correct", sum.Correct, sum.Accuracy())
		fmt.Printf("%-18s %d of %d\n", "Items practised", sum.Items, a.Catalog.Len())
		if sum.Total > 0 {
			fmt.Printf("%-18s %s\n", "First attempt", sum.First.Local().Format("2006-01-02 15:04"))
			fmt.Printf("%-18s %s\n", "Last attempt", sum.Last.Local().Format("2006-01-02 15:04"))
		}

		var graduated int
		for _, e := range entries {
			if e.Graduated {
				graduated++
			}
		}
		fmt.Printf("%-18s %d (%d graduated)\n", "Cells in review", len(entries), graduated)

		var mastered int
		for _, cell := range catalog.AllCells() {
			rec, err := s.CatalogCellMastery(ctx, cell)
			if err != nil {
				return err
			}
			if rec.TotalAttemptCount > 0 && rec.Score >= a.Config.MasteredThreshold {
				mastered++
			}
		}
		fmt.Printf("%-18s %d of %d\n", "Cells mastered", mastered, len(catalog.AllCells()))

		st := s.CacheStats()
		fmt.Printf("\n%-18s %d items, %d cells (%d misses)\n", "Cache", st.ItemEntries, st.CellEntries, st.Misses+st.CellMisses)
		return nil
	},
}
