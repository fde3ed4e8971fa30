package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/offload-api/internal/api"
	apiMiddleware "github.com/phrazzld/offload-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger).Trace)

	personHandler := api.NewPersonHandler(app.runner, app.logger)
	productHandler := api.NewProductHandler(app.runner, app.logger)
	statusHandler := api.NewStatusHandler(app.runner)
	metricsHandler := api.NewMetricsHandler(app.metrics)
	backpressure := apiMiddleware.NewBackpressureMiddleware(app.runner.Gate())

	// Offloaded routes are shed while any worker queue is full.
	r.Group(func(r chi.Router) {
		r.Use(backpressure.Protect)

		r.Get("/person/{id}", personHandler.GetPerson)
		r.Post("/person/{id}", personHandler.SavePerson)

		r.Get("/products/{id}", productHandler.GetProduct)
		r.Post("/products/{id}", productHandler.SaveProduct)
	})

	r.Get("/health", statusHandler.Health)
	r.Get("/status", statusHandler.Status)
	r.Get("/metrics", metricsHandler.Metrics)

	return r
}
