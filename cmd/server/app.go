package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/phrazzld/offload-api/internal/config"
	"github.com/phrazzld/offload-api/internal/platform/memory"
	"github.com/phrazzld/offload-api/internal/platform/postgres"
	"github.com/phrazzld/offload-api/internal/platform/redis"
	"github.com/phrazzld/offload-api/internal/platform/telemetry"
	"github.com/phrazzld/offload-api/internal/task"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// Backend connections; at most one is set, depending on the store driver.
	db    *sql.DB
	redis *goredis.Client

	stores  task.Stores
	runner  *task.Runner
	metrics *telemetry.Metrics
}

// newApplication opens the configured store and starts the task runner.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		metrics: telemetry.NewMetrics(),
	}
	app.metrics.SetGlobal()

	if err := app.openStores(ctx); err != nil {
		app.shutdownMetrics(ctx)
		return nil, err
	}

	runner, err := task.NewRunner(context.WithoutCancel(ctx), app.stores, task.RunnerConfig{
		PersonQueueMaxLen:    cfg.Worker.PersonQueueMaxLen,
		ProductQueueMaxLen:   cfg.Worker.ProductQueueMaxLen,
		ReplyTimeout:         cfg.Worker.ReplyTimeout(),
		OperationTimeout:     cfg.Store.OperationTimeout(),
		DrainOnStop:          cfg.Worker.DrainOnStop,
		MaxRequestsPerSecond: cfg.Server.MaxRequestsPerSecond,
	}, logger, app.metrics.Meter(task.MeterName))
	if err != nil {
		app.closeStores()
		app.shutdownMetrics(ctx)
		return nil, fmt.Errorf("failed to start task runner: %w", err)
	}
	app.runner = runner

	logger.Info("Application initialized successfully")
	return app, nil
}

func (app *application) openStores(ctx context.Context) error {
	switch app.config.Store.Driver {
	case config.DriverPostgres:
		db, err := postgres.Open(ctx, app.config.Store.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		app.db = db
		app.stores = task.Stores{
			Persons:  postgres.NewPostgresPersonStore(db, app.logger),
			Products: postgres.NewPostgresProductStore(db, app.logger),
		}

	case config.DriverRedis:
		client, err := redis.Open(ctx, app.config.Store.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to open redis: %w", err)
		}
		app.redis = client
		s := redis.NewStore(client, app.logger)
		app.stores = task.Stores{Persons: s, Products: s}

	case config.DriverMemory, "":
		s := memory.NewStore()
		app.stores = task.Stores{Persons: s, Products: s}

	default:
		return fmt.Errorf("unknown store driver %q", app.config.Store.Driver)
	}

	app.logger.Info("Store opened", "driver", app.config.Store.Driver)
	return nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup stops the workers, then closes backend connections and the
// meter provider.
func (app *application) cleanup(ctx context.Context) {
	if app.runner != nil {
		if err := app.runner.Stop(ctx); err != nil {
			app.logger.Error("Error stopping task runner", "error", err)
		}
	}

	app.closeStores()
	app.shutdownMetrics(ctx)

	app.logger.Info("Application shutdown completed")
}

func (app *application) closeStores() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("Error closing redis connection", "error", err)
		}
	}
}

func (app *application) shutdownMetrics(ctx context.Context) {
	if app.metrics == nil {
		return
	}
	if err := app.metrics.Shutdown(ctx); err != nil {
		app.logger.Error("Error shutting down meter provider", "error", err)
	}
}
