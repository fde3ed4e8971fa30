package api

import (
	"context"
	"net/http"

	"github.com/phrazzld/offload-api/internal/api/shared"
	"github.com/phrazzld/offload-api/internal/platform/telemetry"
)

// MetricsSource produces a snapshot of the process instruments.
type MetricsSource interface {
	Snapshot(ctx context.Context) ([]telemetry.Metric, error)
}

// MetricsHandler serves GET /metrics.
type MetricsHandler struct {
	source MetricsSource
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(source MetricsSource) *MetricsHandler {
	return &MetricsHandler{source: source}
}

// Metrics handles GET /metrics with a JSON snapshot of every instrument.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.source.Snapshot(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to collect metrics", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]any{"metrics": metrics})
}
