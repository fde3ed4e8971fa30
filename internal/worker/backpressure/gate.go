package backpressure

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/time/rate"
)

// ErrOverloaded is returned by Check when at least one monitored queue is full.
var ErrOverloaded = errors.New("service overloaded")

// OverloadedError names the first checker that rejected the work.
type OverloadedError struct {
	Queue string
}

func (e *OverloadedError) Error() string {
	if e.Queue == "" {
		return ErrOverloaded.Error()
	}
	return fmt.Sprintf("%s: queue %q is full", ErrOverloaded, e.Queue)
}

// Unwrap allows errors.Is(err, ErrOverloaded).
func (e *OverloadedError) Unwrap() error {
	return ErrOverloaded
}

// FullChecker is anything that can report whether it is full.
// queue.Producer satisfies it for every message type.
type FullChecker interface {
	IsFull() bool
}

// CheckerFunc adapts a plain function to a FullChecker.
type CheckerFunc func() bool

// IsFull calls f.
func (f CheckerFunc) IsFull() bool {
	return f()
}

// RateLimit returns a FullChecker that reports full when the limiter has no
// token available. Every call that finds a token consumes it, even when a
// later checker then rejects the request. Register it after the queue
// checkers so requests shed for a full queue leave the bucket untouched.
func RateLimit(limiter *rate.Limiter) FullChecker {
	return CheckerFunc(func() bool {
		return !limiter.Allow()
	})
}

type checker struct {
	name string
	FullChecker
}

// Gate aggregates the full/not-full state of a set of queues.
// A Gate with nothing registered admits everything.
type Gate struct {
	mu       sync.RWMutex
	checkers []checker
}

// New creates an empty gate.
func New() *Gate {
	return &Gate{}
}

// Add registers another checker and returns the gate for chaining.
func (g *Gate) Add(c FullChecker) *Gate {
	return g.AddNamed("", c)
}

// AddNamed registers another checker under a name that is reported in
// OverloadedError when it rejects work.
func (g *Gate) AddNamed(name string, c FullChecker) *Gate {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.checkers = append(g.checkers, checker{name: name, FullChecker: c})
	return g
}

// Check returns an *OverloadedError if any registered checker is full.
// Checkers are consulted in registration order and the first full one wins.
func (g *Gate) Check() error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for _, c := range g.checkers {
		if c.IsFull() {
			return &OverloadedError{Queue: c.name}
		}
	}

	return nil
}

// Len returns the number of registered checkers.
func (g *Gate) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.checkers)
}
