package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/offload-api/internal/api/shared"
	"github.com/phrazzld/offload-api/internal/platform/logger"
	"github.com/phrazzld/offload-api/internal/worker/backpressure"
)

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestTraceMiddleware(t *testing.T) {
	l, buf := logger.NewTestLogger(t)
	m := NewTraceMiddleware(l)

	var traceID string
	handler := m.Trace(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Info("inside handler")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/person/1", nil))

	require.NotEmpty(t, traceID)
	assert.Equal(t, traceID, rec.Header().Get(TraceIDHeader))

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, entry := range entries {
		assert.Equal(t, traceID, entry["trace_id"])
	}
}

func TestBackpressureMiddleware_PassesWhenNotFull(t *testing.T) {
	gate := backpressure.New().Add(backpressure.CheckerFunc(func() bool { return false }))
	m := NewBackpressureMiddleware(gate)

	called := false
	rec := httptest.NewRecorder()
	m.Protect(okHandler(&called)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Retry-After"))
}

func TestBackpressureMiddleware_RejectsWhenFull(t *testing.T) {
	full := false
	gate := backpressure.New().AddNamed("persons", backpressure.CheckerFunc(func() bool { return full }))
	m := NewBackpressureMiddleware(gate)

	called := false
	handler := m.Protect(okHandler(&called))

	full = true
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/person/1", nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	var body shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Service overloaded, try again later", body.Error)

	// The gate re-evaluates on every request.
	full = false
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/person/1", nil))
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

type failingChecker struct{}

func (failingChecker) Check() error { return errors.New("gate broken") }

func TestBackpressureMiddleware_OtherErrors(t *testing.T) {
	m := NewBackpressureMiddleware(failingChecker{})

	called := false
	rec := httptest.NewRecorder()
	m.Protect(okHandler(&called)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "Service unavailable")
}

func TestNewBackpressureMiddleware_NilGate(t *testing.T) {
	assert.Panics(t, func() { NewBackpressureMiddleware(nil) })
}
