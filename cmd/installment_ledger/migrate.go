package main

import (
	"fmt"

	"github.com/SscSPs/installment_ledger_app/internal/platform/config"
	"github.com/SscSPs/installment_ledger_app/pkg/database"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := newLogger()
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("PGSQL_URL is required")
		}
		return database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger)
	},
}
