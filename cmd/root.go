package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/aicred/internal/config"
	"github.com/abhisek/aicred/internal/store"
)

// appConfig is loaded once before any subcommand runs.
var appConfig = config.Default()

var rootCmd = &cobra.Command{
	Use:   "aicred",
	Short: "AI-generated assessments and continuing-education credit",
	Long: "aicred turns learning material into short AI-generated assessments, " +
		"issues credit for passed attempts and tracks proficiency across subjects.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		cfg, err := config.Load(envFile)
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		appConfig = cfg
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "SQLite path or postgres:// / mysql:// DSN (overrides AICRED_DB env var)")
	rootCmd.PersistentFlags().String("env-file", "", "Path to a .env file (default ./.env)")

	rootCmd.AddCommand(assessCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(teamCmd)
	rootCmd.AddCommand(shareCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(subjectsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database location using --db flag (highest
// priority), then AICRED_DB, then the default XDG path. Parent directories
// of file databases are created.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	p, _ := cmd.Flags().GetString("db")
	if p == "" {
		p = appConfig.DB
	}
	if p == "" {
		return store.DefaultDBPath()
	}
	if store.IsNetworkDSN(p) {
		return p, nil
	}
	return p, store.EnsureDir(p)
}
