package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/offload-api/internal/platform/telemetry"
)

type staticMetrics struct {
	metrics []telemetry.Metric
	err     error
}

func (s staticMetrics) Snapshot(context.Context) ([]telemetry.Metric, error) {
	return s.metrics, s.err
}

func TestMetricsHandler_Metrics(t *testing.T) {
	source := staticMetrics{metrics: []telemetry.Metric{{
		Name: "offload.queue.length",
		Kind: "gauge",
		Points: []telemetry.Point{
			{Attributes: map[string]string{"queue": "persons"}, Value: 2},
		},
	}}}

	rec := httptest.NewRecorder()
	NewMetricsHandler(source).Metrics(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"metrics":[{
		"name":"offload.queue.length",
		"kind":"gauge",
		"points":[{"attributes":{"queue":"persons"},"value":2}]
	}]}`, rec.Body.String())
}

func TestMetricsHandler_CollectFailure(t *testing.T) {
	source := staticMetrics{err: errors.New("reader is shutdown")}

	rec := httptest.NewRecorder()
	NewMetricsHandler(source).Metrics(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "reader is shutdown")
}
