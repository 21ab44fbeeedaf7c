package main

import (
	"context"
	"fmt"
	"os"

	"github.com/card-builder/internal/config"
	"github.com/card-builder/internal/events"
	"github.com/card-builder/internal/repository"
	"github.com/card-builder/internal/service"
	"github.com/card-builder/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	jsonOutput bool
	logLevel   string

	cfg       *config.Config
	log       zerolog.Logger
	repos     *repository.Repositories
	publisher events.Publisher
	store     service.CardStore
)

var rootCmd = &cobra.Command{
	Use:           "cardctl <command>",
	Short:         "Manage stored business cards",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if store != nil {
			return nil
		}
		if err := loadConfig(); err != nil {
			return err
		}

		r, err := repository.Open(context.Background(), cfg, log)
		if err != nil {
			return fmt.Errorf("opening %s storage: %w", cfg.Storage.Backend, err)
		}
		p, err := events.Open(cfg.Events, log)
		if err != nil {
			r.Close()
			return fmt.Errorf("connecting event publisher: %w", err)
		}

		repos, publisher = r, p
		store = service.NewCardStore(r.Slots, cfg.Storage.SlotKey, p, log)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if publisher != nil {
			publisher.Close()
		}
		if repos != nil {
			repos.Close()
		}
	},
}

func loadConfig() error {
	c, err := config.Load()
	if err != nil {
		return err
	}
	cfg = c
	// diagnostics go to stderr so stdout stays pipeable
	log = logger.NewWithWriter(os.Stderr, logLevel, cfg.Log.Format)
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level for diagnostics on stderr")

	rootCmd.AddGroup(
		&cobra.Group{ID: "cards", Title: "Cards:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(vcardCmd)
	rootCmd.AddCommand(qrCmd)
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
