package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ariefcatur/korzinka-bot/internal/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := postgres.Connect(cmd.Context(), cfg.DB)
		if err != nil {
			return fmt.Errorf("startup: %w", err)
		}
		defer db.Close()
		if err := postgres.Migrate(cmd.Context(), db); err != nil {
			return err
		}
		logger.Info("schema up to date")
		return nil
	},
}
