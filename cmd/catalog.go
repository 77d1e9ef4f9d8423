package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/conjuga/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the verb catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog verbs (optionally filtered by family)",
	RunE: func(cmd *cobra.Command, args []string) error {
		family, _ := cmd.Flags().GetString("family")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		var filter catalog.Family
		if family != "" {
			if filter, err = catalog.ParseFamily(family); err != nil {
				return err
			}
		}

		fmt.Printf("%-16s  %-14s  %5s  %s\n", "Verb", "Family", "Rank", "Weight")
		fmt.Println(strings.Repeat("─", 48))
		var n int
		for _, v := range a.Catalog.Verbs() {
			if filter != "" && v.Family != filter {
				continue
			}
			rank := "-"
			if v.FrequencyRank > 0 {
				rank = fmt.Sprint(v.FrequencyRank)
			}
			fmt.Printf("%-16s  %-14s  %5s  %.3f\n", v.ID, v.Family, rank, v.DifficultyWeight())
			n++
		}
		fmt.Printf("\n%d verbs, %d items\n", n, n*len(catalog.AllCells()))
		return nil
	},
}

var catalogSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Store the built-in starter verbs",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		verbs := catalog.SeedVerbs()
		if err := a.Store.Verbs().Save(cmd.Context(), verbs); err != nil {
			return err
		}
		fmt.Printf("Stored %d seed verbs\n", len(verbs))
		return nil
	},
}

var catalogImportCmd = &cobra.Command{
	Use:   "import <file.xlsx>",
	Short: "Import verbs from a spreadsheet (columns: verb, family, frequency rank)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := catalog.DefaultImportConfig()
		cfg.FilePath = args[0]
		cfg.SheetName, _ = cmd.Flags().GetString("sheet")
		if noHeader, _ := cmd.Flags().GetBool("no-header"); noHeader {
			cfg.StartRow = 1
		}

		verbs, result, err := catalog.ImportVerbs(cfg)
		if err != nil {
			return err
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Store.Verbs().Save(cmd.Context(), verbs); err != nil {
			return err
		}

		fmt.Printf("Processed %d rows: %d imported, %d skipped\n", result.TotalProcessed, result.Imported, result.Skipped)
		for _, e := range result.Errors {
			fmt.Printf("  %s\n", e)
		}
		return nil
	},
}

func init() {
	catalogListCmd.Flags().String("family", "", "Filter by family (regular, orthographic, stem-changing, irregular)")
	catalogImportCmd.Flags().String("sheet", "", "Sheet name (default: first sheet)")
	catalogImportCmd.Flags().Bool("no-header", false, "The first row holds data")

	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogSeedCmd)
	catalogCmd.AddCommand(catalogImportCmd)
}
