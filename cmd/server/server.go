package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

// startHTTPServer serves router until ctx is done or SIGINT/SIGTERM arrives,
// then shuts the server down and stops the workers within the configured
// shutdown timeout.
func (app *application) startHTTPServer(ctx context.Context, router http.Handler) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.logger.Info("Starting server", "port", app.config.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		app.logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.Server.ShutdownTimeout())
		defer cancel()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			app.logger.Error("Server shutdown failed", "error", err)
			err = fmt.Errorf("server shutdown failed: %w", err)
		}

		app.cleanup(shutdownCtx)
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}

	app.logger.Info("Server shutdown completed")
	return nil
}
