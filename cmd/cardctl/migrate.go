package main

import (
	"github.com/card-builder/internal/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:     "migrate",
	Short:   "Manage the postgres schema",
	GroupID: "system",
	// the postgres connection is opened per subcommand, without auto-migrating
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig()
	},
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.New(&cfg.Database, log)
		if err != nil {
			return err
		}
		defer db.Close()
		return db.RunMigrations(cfg.Storage.MigrationsPath)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the last migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.New(&cfg.Database, log)
		if err != nil {
			return err
		}
		defer db.Close()
		return db.MigrateDown(cfg.Storage.MigrationsPath)
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
}
