package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sagarc03/tasker/config"
	"github.com/sagarc03/tasker/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the task tables and validate their schema",
	Long: `Create the configured task table if it does not exist, then check that
its columns match what tasker expects. Running it twice is safe.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	dbCfg := cfg.Database
	dbCfg.AutoMigrate = true

	db, err := database.Open(ctx, dbCfg)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	defer func() { _ = db.Close() }()

	slog.Info("database migration complete", "type", dbCfg.Type, "table", dbCfg.Tables.Tasks)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Table %q is ready\n", dbCfg.Tables.Tasks)
	return nil
}
