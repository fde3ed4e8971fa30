package worker

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/phrazzld/offload-api/internal/worker/queue"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Unit is the function a worker runs for every message. It gets a pointer to
// the worker's private state and may mutate it freely.
type Unit[C, M any] func(state *C, msg M)

// Handle controls a running worker.
type Handle struct {
	name   string
	cancel context.CancelFunc
	done   chan struct{}
}

// Stop asks the worker to exit. It does not wait; use Wait or Shutdown for that.
func (h *Handle) Stop() {
	h.cancel()
}

// Wait blocks until the worker has exited.
func (h *Handle) Wait() {
	<-h.done
}

// Done is closed once the worker has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Name returns the worker name.
func (h *Handle) Name() string {
	return h.name
}

// Shutdown stops the worker and waits for it to exit or for ctx to be done,
// whichever happens first.
func (h *Handle) Shutdown(ctx context.Context) error {
	h.Stop()

	select {
	case <-h.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("worker %s did not stop: %w", h.name, ctx.Err())
	}
}

type instruments struct {
	messages metric.Int64Counter
	duration metric.Float64Histogram
}

func newInstruments(meter metric.Meter) instruments {
	// The OTel API hands back noop instruments alongside any error.
	messages, _ := meter.Int64Counter(
		"offload.worker.messages",
		metric.WithDescription("Messages handled by background workers"),
		metric.WithUnit("{message}"),
	)
	duration, _ := meter.Float64Histogram(
		"offload.worker.duration",
		metric.WithDescription("Time spent running a unit of work in seconds"),
		metric.WithUnit("s"),
	)

	return instruments{messages: messages, duration: duration}
}

type worker[C, M any] struct {
	rx     queue.Consumer[M]
	state  C
	unit   Unit[C, M]
	opts   options
	logger *slog.Logger
	inst   instruments
}

// Spawn starts a worker goroutine that pops messages off rx and runs unit for
// each of them against state. The worker runs until ctx is done or the
// returned handle is stopped.
func Spawn[C, M any](ctx context.Context, rx queue.Consumer[M], state C, unit Unit[C, M], opts ...Option) *Handle {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithCancel(ctx)

	w := &worker[C, M]{
		rx:     rx,
		state:  state,
		unit:   unit,
		opts:   o,
		logger: o.logger.With("worker", o.name),
		inst:   newInstruments(o.meter),
	}

	h := &Handle{
		name:   o.name,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(h.done)
		w.loop(ctx)
	}()

	return h
}

func (w *worker[C, M]) loop(ctx context.Context) {
	w.logger.Debug("starting worker")

	for ctx.Err() == nil {
		msg, err := w.rx.Pop(ctx)
		if err != nil {
			break
		}
		w.run(msg)
	}

	if w.opts.drainOnStop {
		drained := 0
		for {
			msg, ok := w.rx.TryPop()
			if !ok {
				break
			}
			w.run(msg)
			drained++
		}
		w.logger.Debug("drained queue before stopping", "drained", drained)
	}

	w.logger.Debug("stopping worker")
}

// run calls the unit for one message, containing any panic so the loop
// keeps going.
func (w *worker[C, M]) run(msg M) {
	start := time.Now()
	status := "ok"

	defer func() {
		if r := recover(); r != nil {
			status = "panic"
			w.logger.Error("unit of work panicked",
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()))
		}

		attrs := metric.WithAttributes(
			attribute.String("worker", w.opts.name),
			attribute.String("status", status),
		)
		w.inst.duration.Record(context.Background(), time.Since(start).Seconds(), attrs)
		w.inst.messages.Add(context.Background(), 1, attrs)
	}()

	w.unit(&w.state, msg)
}
