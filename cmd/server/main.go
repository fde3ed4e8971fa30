// Package main implements the entry point for the offload API server, which
// serves person and product lookups through backpressured worker queues.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/phrazzld/offload-api/internal/config"
	"github.com/phrazzld/offload-api/internal/platform/logger"
	"github.com/phrazzld/offload-api/internal/platform/postgres"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCommand builds the CLI: "serve" runs the HTTP server, "migrate"
// manages the PostgreSQL schema.
func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "offload",
		Short:         "Offload API server",
		Long:          "Serves person and product lookups through per-entity worker queues with backpressure.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a config file (default ./config.yaml if present)")

	var autoMigrate bool
	serveCmd := &cobra.Command{
		Use:     "serve",
		Short:   "Start the HTTP server",
		Aliases: []string{"run"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := initializeApp(configPath)
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg, log, autoMigrate)
		},
	}
	serveCmd.Flags().BoolVar(&autoMigrate, "migrate", false, "apply pending migrations before serving (postgres driver only)")
	root.AddCommand(serveCmd)

	migrateCmd := &cobra.Command{
		Use:       "migrate [up|down|reset|status|version]",
		Short:     "Manage the PostgreSQL schema",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "reset", "status", "version"},
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) == 1 {
				command = args[0]
			}

			cfg, log, err := initializeApp(configPath)
			if err != nil {
				return err
			}
			return runMigrations(cmd.Context(), cfg, log, command)
		},
	}
	root.AddCommand(migrateCmd)

	return root
}

// initializeApp loads configuration and sets up logging.
func initializeApp(configPath string) (*config.Config, *slog.Logger, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"store_driver", cfg.Store.Driver)

	return cfg, log, nil
}

func runServer(ctx context.Context, cfg *config.Config, log *slog.Logger, autoMigrate bool) error {
	app, err := newApplication(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	if autoMigrate && app.db != nil {
		if err := postgres.Migrate(ctx, app.db, "up", log); err != nil {
			app.cleanup(context.Background())
			return err
		}
	}

	return app.Run(ctx)
}

func runMigrations(ctx context.Context, cfg *config.Config, log *slog.Logger, command string) error {
	if cfg.Store.DatabaseURL == "" {
		return fmt.Errorf("migrate requires store.database_url (OFFLOAD_STORE_DATABASE_URL)")
	}

	db, err := postgres.Open(ctx, cfg.Store.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database connection", "error", err)
		}
	}()

	return postgres.Migrate(ctx, db, command, log)
}
