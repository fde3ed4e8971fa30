package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/offload-api/internal/task"
)

func TestStatusHandler_Health(t *testing.T) {
	h := NewStatusHandler(staticStatus{})
	rec := httptest.NewRecorder()

	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestStatusHandler_Status(t *testing.T) {
	healthy := staticStatus{
		Queues: []task.QueueStatus{
			{Name: "persons", Len: 0, MaxLen: 10},
			{Name: "products", Len: 3, MaxLen: 100},
		},
	}

	rec := httptest.NewRecorder()
	NewStatusHandler(healthy).Status(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"queues": [
			{"name":"persons","len":0,"max_len":10,"full":false},
			{"name":"products","len":3,"max_len":100,"full":false}
		],
		"overloaded": false
	}`, rec.Body.String())

	overloaded := staticStatus{
		Queues:     []task.QueueStatus{{Name: "persons", Len: 10, MaxLen: 10, Full: true}},
		Overloaded: true,
	}

	rec = httptest.NewRecorder()
	NewStatusHandler(overloaded).Status(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}
