package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/tasker/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "tasker",
	Short:   "Task tracking API with JWT authorization and presigned attachments",
	Long: `Tasker serves a small REST API for personal task lists. Requests are
authorized with RS256 bearer tokens from an external identity provider and
attachments are uploaded straight to object storage via presigned URLs.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configFiles, _ := cmd.Flags().GetStringArray("config")

		cfg, err := config.Load(configFiles, cmd.Flags())
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		setupLogging(cfg.Env, cfg.Log.Level)
		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringArray("config", nil, "config file path, repeatable; later files override earlier ones (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("db-type", "", "database type: sqlite, postgres (default: sqlite, env: TASKER_DATABASE_TYPE)")
	rootCmd.PersistentFlags().String("db-dsn", "", "database connection string (default: tasker.db, env: TASKER_DATABASE_DSN)")
	rootCmd.PersistentFlags().Int("port", 8080, "HTTP server port (env: TASKER_SERVER_PORT)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (env: TASKER_LOG_LEVEL)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
