package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/phrazzld/offload-api/internal/api/shared"
	"github.com/phrazzld/offload-api/internal/worker/backpressure"
)

// RetryAfterSeconds is sent in the Retry-After header of rejected requests.
const RetryAfterSeconds = 1

// Checker reports whether the service can take more work.
// *backpressure.Gate satisfies it.
type Checker interface {
	Check() error
}

// BackpressureMiddleware rejects requests with 503 while any queue behind
// the gate is full.
type BackpressureMiddleware struct {
	gate Checker
}

// NewBackpressureMiddleware creates a BackpressureMiddleware.
func NewBackpressureMiddleware(gate Checker) *BackpressureMiddleware {
	if gate == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("gate cannot be nil for BackpressureMiddleware")
	}
	return &BackpressureMiddleware{gate: gate}
}

// Protect is the middleware handler.
func (m *BackpressureMiddleware) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := m.gate.Check(); err != nil {
			message := "Service overloaded, try again later"
			if !errors.Is(err, backpressure.ErrOverloaded) {
				message = "Service unavailable"
			}

			w.Header().Set("Retry-After", strconv.Itoa(RetryAfterSeconds))
			shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable, message, err)
			return
		}

		next.ServeHTTP(w, r)
	})
}
