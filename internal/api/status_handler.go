package api

import (
	"net/http"

	"github.com/phrazzld/offload-api/internal/api/shared"
	"github.com/phrazzld/offload-api/internal/task"
)

// StatusReporter exposes a snapshot of the worker queues.
type StatusReporter interface {
	Status() task.Status
}

// StatusHandler serves the health and queue status endpoints.
type StatusHandler struct {
	reporter StatusReporter
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(reporter StatusReporter) *StatusHandler {
	return &StatusHandler{reporter: reporter}
}

// Health handles GET /health.
func (h *StatusHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// Status handles GET /status. It answers 503 while any queue is full.
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	status := h.reporter.Status()

	code := http.StatusOK
	if status.Overloaded {
		code = http.StatusServiceUnavailable
		w.Header().Set("Retry-After", "1")
	}

	shared.RespondWithJSON(w, r, code, status)
}
