package backpressure

import (
	"errors"
	"sync"
	"testing"

	"github.com/phrazzld/offload-api/internal/worker/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func fullQueue(t *testing.T) queue.Producer[string] {
	t.Helper()
	tx, _ := queue.NewBuilder[string]().WithMaxLen(1).Build()
	tx.Push("x")
	require.True(t, tx.IsFull())
	return tx
}

func TestGate_EmptyAlwaysAdmits(t *testing.T) {
	g := New()

	assert.Equal(t, 0, g.Len())
	for i := 0; i < 3; i++ {
		assert.NoError(t, g.Check())
	}
}

func TestGate_NotFull(t *testing.T) {
	people, _ := queue.NewBuilder[string]().WithMaxLen(10).Build()
	unmonitored, _ := queue.NewBuilder[int]().Build()

	g := New().Add(people).Add(unmonitored)

	assert.Equal(t, 2, g.Len())
	assert.NoError(t, g.Check())
}

func TestGate_OneFullQueueRejectsRegardlessOfOrder(t *testing.T) {
	notFull, _ := queue.NewBuilder[int]().WithMaxLen(10).Build()

	tests := []struct {
		name string
		gate *Gate
	}{
		{"full first", New().Add(fullQueue(t)).Add(notFull)},
		{"full last", New().Add(notFull).Add(fullQueue(t))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.gate.Check()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrOverloaded)
		})
	}
}

func TestGate_ReportsFirstFullQueueName(t *testing.T) {
	products, _ := queue.NewBuilder[int]().WithMaxLen(5).Build()

	g := New().
		AddNamed("products", products).
		AddNamed("persons", fullQueue(t)).
		AddNamed("audit", fullQueue(t))

	err := g.Check()

	var overloaded *OverloadedError
	require.True(t, errors.As(err, &overloaded))
	assert.Equal(t, "persons", overloaded.Queue)
	assert.Contains(t, err.Error(), `queue "persons" is full`)
}

func TestGate_RecoversWhenQueueDrains(t *testing.T) {
	tx, rx := queue.NewBuilder[string]().WithMaxLen(1).Build()
	g := New().Add(tx)

	tx.Push("a")
	assert.ErrorIs(t, g.Check(), ErrOverloaded)

	_, ok := rx.TryPop()
	require.True(t, ok)
	assert.NoError(t, g.Check())
}

func TestGate_AddAfterUse(t *testing.T) {
	g := New()
	require.NoError(t, g.Check())

	g.Add(fullQueue(t))
	assert.ErrorIs(t, g.Check(), ErrOverloaded)
}

func TestCheckerFunc(t *testing.T) {
	full := false
	g := New().Add(CheckerFunc(func() bool { return full }))

	assert.NoError(t, g.Check())

	full = true
	assert.ErrorIs(t, g.Check(), ErrOverloaded)
}

func TestRateLimit(t *testing.T) {
	// No refill during the test, burst of two.
	limiter := rate.NewLimiter(rate.Limit(0), 2)
	g := New().AddNamed("rate", RateLimit(limiter))

	assert.NoError(t, g.Check())
	assert.NoError(t, g.Check())

	err := g.Check()
	var overloaded *OverloadedError
	require.True(t, errors.As(err, &overloaded))
	assert.Equal(t, "rate", overloaded.Queue)
}

func TestRateLimit_RegisteredLastKeepsTokensWhileQueueFull(t *testing.T) {
	limiter := rate.NewLimiter(rate.Limit(0), 1)
	full := true
	g := New().
		AddNamed("persons", CheckerFunc(func() bool { return full })).
		AddNamed("rate", RateLimit(limiter))

	var overloaded *OverloadedError
	for i := 0; i < 3; i++ {
		require.ErrorAs(t, g.Check(), &overloaded)
		assert.Equal(t, "persons", overloaded.Queue)
	}

	full = false
	assert.NoError(t, g.Check(), "token spent while the queue was full")

	require.ErrorAs(t, g.Check(), &overloaded)
	assert.Equal(t, "rate", overloaded.Queue)
}

func TestOverloadedError_Unnamed(t *testing.T) {
	err := &OverloadedError{}
	assert.Equal(t, ErrOverloaded.Error(), err.Error())
	assert.True(t, errors.Is(err, ErrOverloaded))
}

func TestGate_ConcurrentCheck(t *testing.T) {
	tx, rx := queue.NewBuilder[int]().WithMaxLen(1000).Build()
	g := New().Add(tx)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if g.Check() == nil {
					tx.Push(j)
				}
			}
		}()
	}
	wg.Wait()

	n := 0
	for {
		if _, ok := rx.TryPop(); !ok {
			break
		}
		n++
	}
	assert.Equal(t, 800, n)
	assert.NoError(t, g.Check())
}
