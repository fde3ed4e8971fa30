package queue

import (
	"context"
	"sync"
)

// compactThreshold is the number of consumed slots kept at the head of the
// buffer before it is shifted down.
const compactThreshold = 64

// core is the transport shared by every handle of one queue.
type core[M any] struct {
	mu    sync.Mutex
	items []M
	head  int

	// ready holds at most one wake-up token for blocked consumers.
	ready chan struct{}
}

func newCore[M any]() *core[M] {
	return &core[M]{
		ready: make(chan struct{}, 1),
	}
}

func (c *core[M]) push(msg M) {
	c.mu.Lock()
	c.items = append(c.items, msg)
	c.mu.Unlock()

	c.signal()
}

func (c *core[M]) tryPop() (M, bool) {
	var zero M

	c.mu.Lock()
	if c.head == len(c.items) {
		c.mu.Unlock()
		return zero, false
	}

	msg := c.items[c.head]
	c.items[c.head] = zero
	c.head++

	remaining := len(c.items) - c.head
	switch {
	case remaining == 0:
		c.items = c.items[:0]
		c.head = 0
	case c.head >= compactThreshold && c.head*2 >= len(c.items):
		n := copy(c.items, c.items[c.head:])
		clear(c.items[n:])
		c.items = c.items[:n]
		c.head = 0
	}
	c.mu.Unlock()

	// Pass the token on so another blocked consumer sees the rest.
	if remaining > 0 {
		c.signal()
	}

	return msg, true
}

func (c *core[M]) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items) - c.head
}

func (c *core[M]) signal() {
	select {
	case c.ready <- struct{}{}:
	default:
	}
}

// counter is the approximate occupancy of a monitored queue.
//
// It is guarded by its own lock, separate from the transport, so it can lag
// the real length while pushes and pops are in flight. It is good enough for
// capacity estimates and nothing more.
type counter struct {
	mu sync.RWMutex
	n  int
}

func (c *counter) inc() {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
}

func (c *counter) dec() {
	c.mu.Lock()
	c.n--
	c.mu.Unlock()
}

func (c *counter) load() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.n
}

// watermark pairs the configured max length with the shared counter.
type watermark struct {
	maxLen int
	len    *counter
}

// Builder configures a new queue.
type Builder[M any] struct {
	maxLen    int
	monitored bool
}

// NewBuilder creates a builder for a queue of M.
func NewBuilder[M any]() *Builder[M] {
	return &Builder[M]{}
}

// WithMaxLen sets a recommended maximum length for the queue.
// Once the occupancy reaches maxLen the producer reports itself as full.
func (b *Builder[M]) WithMaxLen(maxLen int) *Builder[M] {
	b.maxLen = maxLen
	b.monitored = true
	return b
}

// Build creates the queue and returns its producing and consuming ends.
func (b *Builder[M]) Build() (Producer[M], Consumer[M]) {
	q := newCore[M]()

	tx := Producer[M]{q: q}
	rx := Consumer[M]{q: q}

	if b.monitored {
		ctr := &counter{}
		tx.wm = &watermark{maxLen: b.maxLen, len: ctr}
		rx.len = ctr
	}

	return tx, rx
}

// Producer is the pushing end of a queue.
//
// A Producer is safe for concurrent use and may be copied; copies share the
// same queue and counter.
type Producer[M any] struct {
	q  *core[M]
	wm *watermark
}

// Push appends msg to the queue.
//
// The max length is not enforced here, so if callers never check IsFull the
// queue can grow without bound.
func (p Producer[M]) Push(msg M) {
	if p.wm != nil {
		p.wm.len.inc()
	}

	p.q.push(msg)
}

// IsFull reports whether the occupancy counter has reached the configured
// max length. A queue built without a max length is never full.
func (p Producer[M]) IsFull() bool {
	if p.wm == nil {
		return false
	}

	return p.wm.len.load() >= p.wm.maxLen
}

// MaxLen returns the configured max length and whether one was set.
func (p Producer[M]) MaxLen() (int, bool) {
	if p.wm == nil {
		return 0, false
	}

	return p.wm.maxLen, true
}

// Len returns the number of messages currently held by the queue.
func (p Producer[M]) Len() int {
	return p.q.len()
}

// Clone returns another handle to the same queue.
func (p Producer[M]) Clone() Producer[M] {
	return Producer[M]{q: p.q, wm: p.wm}
}

// Consumer is the popping end of a queue.
//
// A Consumer is safe for concurrent use and may be copied; copies share the
// same queue and counter.
type Consumer[M any] struct {
	q   *core[M]
	len *counter
}

// TryPop removes the message at the head of the queue without blocking.
// It returns false when the queue is empty.
func (c Consumer[M]) TryPop() (M, bool) {
	msg, ok := c.q.tryPop()
	if !ok {
		return msg, false
	}

	if c.len != nil {
		c.len.dec()
	}

	return msg, true
}

// Pop removes the message at the head of the queue, waiting for one to be
// pushed if the queue is empty. It returns ctx.Err() if ctx is done first.
func (c Consumer[M]) Pop(ctx context.Context) (M, error) {
	for {
		if msg, ok := c.TryPop(); ok {
			return msg, nil
		}

		select {
		case <-c.q.ready:
		case <-ctx.Done():
			var zero M
			return zero, ctx.Err()
		}
	}
}

// Len returns the number of messages currently held by the queue.
func (c Consumer[M]) Len() int {
	return c.q.len()
}

// Clone returns another handle to the same queue.
func (c Consumer[M]) Clone() Consumer[M] {
	return Consumer[M]{q: c.q, len: c.len}
}
