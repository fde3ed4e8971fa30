package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/phrazzld/offload-api/internal/domain"
	"github.com/phrazzld/offload-api/internal/store"
	"github.com/phrazzld/offload-api/internal/worker"
	"github.com/phrazzld/offload-api/internal/worker/backpressure"
	"github.com/phrazzld/offload-api/internal/worker/queue"
)

// MeterName names the meter the runner and its workers record on.
const MeterName = "github.com/phrazzld/offload-api/internal/task"

const (
	personsQueue  = "persons"
	productsQueue = "products"
	rateChecker   = "rate"
)

var (
	// ErrStopped is returned for commands issued to, or left queued in, a
	// stopped runner.
	ErrStopped = errors.New("runner stopped")

	// ErrReplyTimeout is returned when a worker does not answer within the
	// configured reply timeout. It wraps context.DeadlineExceeded.
	ErrReplyTimeout = errors.New("timed out waiting for worker reply")
)

// RunnerConfig holds configuration for the runner.
type RunnerConfig struct {
	// PersonQueueMaxLen is the watermark of the persons queue.
	PersonQueueMaxLen int

	// ProductQueueMaxLen is the watermark of the products queue.
	ProductQueueMaxLen int

	// ReplyTimeout bounds how long a caller waits for a worker's answer.
	ReplyTimeout time.Duration

	// OperationTimeout bounds each store call made by a worker.
	OperationTimeout time.Duration

	// DrainOnStop makes workers handle queued messages before exiting.
	DrainOnStop bool

	// MaxRequestsPerSecond adds a token bucket to the gate when positive.
	MaxRequestsPerSecond float64
}

// DefaultRunnerConfig returns a RunnerConfig with reasonable defaults.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		PersonQueueMaxLen:  10,
		ProductQueueMaxLen: 100,
		ReplyTimeout:       5 * time.Second,
		OperationTimeout:   2 * time.Second,
	}
}

// Stores groups the store handles the workers own.
type Stores struct {
	Persons  store.PersonStore
	Products store.ProductStore
}

// QueueStatus describes one worker queue.
type QueueStatus struct {
	Name   string `json:"name"`
	Len    int    `json:"len"`
	MaxLen int    `json:"max_len"`
	Full   bool   `json:"full"`
}

// Status is a snapshot of the runner's queues.
type Status struct {
	Queues     []QueueStatus `json:"queues"`
	Overloaded bool          `json:"overloaded"`
}

// Runner owns the persons and products queues, their workers and the gate
// guarding them.
type Runner struct {
	config RunnerConfig
	logger *slog.Logger

	persons     queue.Producer[PersonMessage]
	personsRx   queue.Consumer[PersonMessage]
	products    queue.Producer[ProductMessage]
	productsRx  queue.Consumer[ProductMessage]
	gate        *backpressure.Gate
	handles     []*worker.Handle
	metricsRegs []metric.Registration

	// submitMu orders command submission against Stop: a push holds the
	// read lock across its stopped check, Stop flips stopped under the
	// write lock.
	submitMu sync.RWMutex
	stopped  atomic.Bool
	stopOnce sync.Once
	stopErr  error
}

// NewRunner builds the queues, spawns one worker per queue and registers the
// queues with a backpressure gate. Workers stop when ctx is done or Stop is
// called. A nil meter uses the global meter provider.
func NewRunner(
	ctx context.Context,
	stores Stores,
	config RunnerConfig,
	logger *slog.Logger,
	meter metric.Meter,
) (*Runner, error) {
	if stores.Persons == nil || stores.Products == nil {
		return nil, errors.New("runner requires both a person and a product store")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if meter == nil {
		meter = otel.Meter(MeterName)
	}

	r := &Runner{
		config: config,
		logger: logger.With("component", "task_runner"),
		gate:   backpressure.New(),
	}

	r.persons, r.personsRx = queue.NewBuilder[PersonMessage]().
		WithMaxLen(config.PersonQueueMaxLen).
		Build()
	r.products, r.productsRx = queue.NewBuilder[ProductMessage]().
		WithMaxLen(config.ProductQueueMaxLen).
		Build()

	r.gate.AddNamed(personsQueue, r.persons).AddNamed(productsQueue, r.products)
	if config.MaxRequestsPerSecond > 0 {
		burst := max(1, int(config.MaxRequestsPerSecond))
		limiter := rate.NewLimiter(rate.Limit(config.MaxRequestsPerSecond), burst)
		r.gate.AddNamed(rateChecker, backpressure.RateLimit(limiter))
	}

	personsReg, err := worker.ObserveQueue(meter, personsQueue, r.persons)
	if err != nil {
		return nil, fmt.Errorf("failed to observe persons queue: %w", err)
	}
	r.metricsRegs = append(r.metricsRegs, personsReg)

	productsReg, err := worker.ObserveQueue(meter, productsQueue, r.products)
	if err != nil {
		r.unregisterMetrics()
		return nil, fmt.Errorf("failed to observe products queue: %w", err)
	}
	r.metricsRegs = append(r.metricsRegs, productsReg)

	workerOpts := func(name string) []worker.Option {
		opts := []worker.Option{
			worker.WithName(name),
			worker.WithLogger(r.logger),
			worker.WithMeter(meter),
		}
		if config.DrainOnStop {
			opts = append(opts, worker.WithDrainOnStop())
		}
		return opts
	}

	state := func(name string) StoreContext {
		return StoreContext{
			Persons:  stores.Persons,
			Products: stores.Products,
			Logger:   r.logger.With("worker", name),
			Timeout:  config.OperationTimeout,
		}
	}

	r.handles = append(r.handles,
		worker.Spawn(ctx, r.personsRx.Clone(), state(personsQueue), HandlePerson, workerOpts(personsQueue)...),
		worker.Spawn(ctx, r.productsRx.Clone(), state(productsQueue), HandleProduct, workerOpts(productsQueue)...),
	)

	r.logger.Info("task runner started",
		"person_queue_max_len", config.PersonQueueMaxLen,
		"product_queue_max_len", config.ProductQueueMaxLen,
		"max_requests_per_second", config.MaxRequestsPerSecond)

	return r, nil
}

// Gate returns the backpressure gate covering every queue of the runner.
func (r *Runner) Gate() *backpressure.Gate {
	return r.gate
}

// GetPerson loads a person through the persons worker.
func (r *Runner) GetPerson(ctx context.Context, id domain.PersonID) (*domain.Person, error) {
	msg := NewGetPerson(id)
	if err := submit(r, r.persons, msg); err != nil {
		return nil, err
	}
	return await(ctx, r.config.ReplyTimeout, msg.Reply)
}

// SavePerson upserts a person through the persons worker.
func (r *Runner) SavePerson(ctx context.Context, person *domain.Person) (*domain.Person, error) {
	msg := NewSavePerson(person)
	if err := submit(r, r.persons, msg); err != nil {
		return nil, err
	}
	return await(ctx, r.config.ReplyTimeout, msg.Reply)
}

// GetProduct loads a product through the products worker.
func (r *Runner) GetProduct(ctx context.Context, id domain.ProductID) (*domain.Product, error) {
	msg := NewGetProduct(id)
	if err := submit(r, r.products, msg); err != nil {
		return nil, err
	}
	return await(ctx, r.config.ReplyTimeout, msg.Reply)
}

// SaveProduct upserts a product through the products worker.
func (r *Runner) SaveProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	msg := NewSaveProduct(product)
	if err := submit(r, r.products, msg); err != nil {
		return nil, err
	}
	return await(ctx, r.config.ReplyTimeout, msg.Reply)
}

// submit pushes msg unless the runner is stopped. Once Stop has flipped
// stopped, no further message reaches a queue, so rejectQueued sees every
// message that did.
func submit[M any](r *Runner, p queue.Producer[M], msg M) error {
	r.submitMu.RLock()
	defer r.submitMu.RUnlock()

	if r.stopped.Load() {
		return ErrStopped
	}
	p.Push(msg)
	return nil
}

func await[T any](ctx context.Context, timeout time.Duration, reply *Reply[T]) (T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	value, err := reply.Wait(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		return value, fmt.Errorf("%w: %w", ErrReplyTimeout, err)
	}
	return value, err
}

// Status reports the length and watermark of each queue. Overloaded is true
// when any queue is full; it does not consume rate limiter tokens.
func (r *Runner) Status() Status {
	persons := queueStatus(personsQueue, r.persons)
	products := queueStatus(productsQueue, r.products)

	return Status{
		Queues:     []QueueStatus{persons, products},
		Overloaded: persons.Full || products.Full,
	}
}

func queueStatus[M any](name string, p queue.Producer[M]) QueueStatus {
	maxLen, _ := p.MaxLen()
	return QueueStatus{
		Name:   name,
		Len:    p.Len(),
		MaxLen: maxLen,
		Full:   p.IsFull(),
	}
}

// Stop stops every worker and waits for them until ctx is done. Messages
// still queued afterwards are answered with ErrStopped. Calling Stop more
// than once returns the first result.
func (r *Runner) Stop(ctx context.Context) error {
	r.stopOnce.Do(func() {
		for _, h := range r.handles {
			h.Stop()
		}

		r.submitMu.Lock()
		r.stopped.Store(true)
		r.submitMu.Unlock()

		g, gctx := errgroup.WithContext(ctx)
		for _, h := range r.handles {
			g.Go(func() error {
				return h.Shutdown(gctx)
			})
		}
		r.stopErr = g.Wait()

		rejected := r.rejectQueued()
		r.unregisterMetrics()

		r.logger.Info("task runner stopped", "rejected", rejected, "error", r.stopErr)
	})

	return r.stopErr
}

// rejectQueued answers messages left behind by stopped workers.
func (r *Runner) rejectQueued() int {
	rejected := 0
	for {
		msg, ok := r.personsRx.TryPop()
		if !ok {
			break
		}
		msg.Reply.Complete(nil, ErrStopped)
		rejected++
	}
	for {
		msg, ok := r.productsRx.TryPop()
		if !ok {
			break
		}
		msg.Reply.Complete(nil, ErrStopped)
		rejected++
	}
	return rejected
}

func (r *Runner) unregisterMetrics() {
	for _, reg := range r.metricsRegs {
		if err := reg.Unregister(); err != nil {
			r.logger.Warn("failed to unregister queue metrics", "error", err)
		}
	}
	r.metricsRegs = nil
}
