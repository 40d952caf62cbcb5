package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-variants/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations to the PostgreSQL library",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("--database-url or DATABASE_URL is required")
	}

	database, err := db.Connect(cmd.Context(), cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.Migrate(cmd.Context()); err != nil {
		return err
	}
	names, err := db.MigrationNames()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Applied migrations: %v\n", names)
	return nil
}
