package task

import (
	"context"
	"sync"
)

// Reply is a one-shot slot a worker fills in once it has handled a message.
type Reply[T any] struct {
	once  sync.Once
	done  chan struct{}
	value T
	err   error
}

// NewReply creates an empty reply.
func NewReply[T any]() *Reply[T] {
	return &Reply[T]{done: make(chan struct{})}
}

// Complete stores the outcome and wakes any waiter. It reports whether this
// call was the one that completed the reply; later calls are ignored.
func (r *Reply[T]) Complete(value T, err error) bool {
	completed := false
	r.once.Do(func() {
		r.value = value
		r.err = err
		close(r.done)
		completed = true
	})
	return completed
}

// Done is closed once the reply has been completed.
func (r *Reply[T]) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the reply is completed or ctx is done.
func (r *Reply[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-r.done:
		return r.value, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
