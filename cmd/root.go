package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abhisek/conjuga/internal/app"
	"github.com/abhisek/conjuga/internal/session"
)

// defaultUser is used when neither --user nor CONJUGA_USER is set.
const defaultUser = "default"

var rootCmd = &cobra.Command{
	Use:   "conjuga",
	Short: "Verb conjugation mastery tracker",
	Long:  "Conjuga tracks per-form mastery of verb conjugations, schedules reviews and tunes drill difficulty.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
		return nil
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides CONJUGA_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to a config file (yaml, toml or json)")
	rootCmd.PersistentFlags().String("user", "", "Learner ID (overrides CONJUGA_USER env var)")

	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(masteryCmd)
	rootCmd.AddCommand(dueCmd)
	rootCmd.AddCommand(difficultyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(versionCmd)
}

// openApp opens the app using the --db and --config flags.
func openApp(cmd *cobra.Command) (*app.App, error) {
	dbPath, _ := cmd.Flags().GetString("db")
	cfgPath, _ := cmd.Flags().GetString("config")
	return app.Open(cmd.Context(), app.Options{DBPath: dbPath, ConfigPath: cfgPath})
}

// resolveUser returns the learner ID using --user (highest priority), then
// CONJUGA_USER, then defaultUser.
func resolveUser(cmd *cobra.Command) string {
	if u, _ := cmd.Flags().GetString("user"); u != "" {
		return u
	}
	if u := os.Getenv("CONJUGA_USER"); u != "" {
		return u
	}
	return defaultUser
}

// openSession opens the app and a session for the resolved learner. The
// returned func closes both.
func openSession(cmd *cobra.Command) (*app.App, *session.Session, func(), error) {
	a, err := openApp(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	s, err := a.NewSession(resolveUser(cmd))
	if err != nil {
		a.Close()
		return nil, nil, nil, fmt.Errorf("open session: %w", err)
	}
	return a, s, func() {
		s.Close()
		a.Close()
	}, nil
}
