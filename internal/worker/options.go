package worker

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name for worker and queue metrics.
const meterName = "github.com/phrazzld/offload-api/internal/worker"

type options struct {
	name        string
	logger      *slog.Logger
	meter       metric.Meter
	drainOnStop bool
}

func defaultOptions() options {
	return options{
		name:   "worker",
		logger: slog.Default(),
		meter:  otel.Meter(meterName),
	}
}

// Option configures a worker spawned with Spawn.
type Option func(*options)

// WithName sets the worker name used in logs and metric attributes.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMeter sets the meter used for worker instruments. Defaults to the
// global MeterProvider, which is a noop unless one has been installed.
func WithMeter(meter metric.Meter) Option {
	return func(o *options) {
		if meter != nil {
			o.meter = meter
		}
	}
}

// WithDrainOnStop makes a stopping worker process every message that is
// already queued before it exits.
func WithDrainOnStop() Option {
	return func(o *options) { o.drainOnStop = true }
}
