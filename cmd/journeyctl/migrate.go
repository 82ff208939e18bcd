package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"startup_journey/internal/database"
)

var createDB bool

func init() {
	migrateUpCmd.Flags().BoolVar(&createDB, "create-db", false, "create the target database first when it does not exist")

	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back schema migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Long: `Apply all pending migrations.

Examples:
  # Migrate a hosted database
  journeyctl migrate up

  # Local Postgres without the database created yet
  journeyctl migrate up --create-db`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := setup()
		if err != nil {
			return err
		}
		if createDB {
			if err := database.EnsureDatabaseExists(ctx, cfg.Database.URL); err != nil {
				return err
			}
		}
		pool, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer pool.Close()
		return database.RunMigrations(ctx, pool)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, pool, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()
		return database.MigrateDown(cmd.Context(), pool)
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which migrations have been applied",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, pool, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := database.MigrationStatus(cmd.Context(), pool); err != nil {
			return fmt.Errorf("failed to read migration status: %w", err)
		}
		return nil
	},
}
