package middleware

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/offload-api/internal/api/shared"
	"github.com/phrazzld/offload-api/internal/platform/logger"
)

// TraceIDHeader carries the trace ID back to the client.
const TraceIDHeader = "X-Trace-ID"

// TraceMiddleware adds a trace ID and a request-scoped logger to the request
// context. It should be applied early in the middleware chain so that all
// subsequent handlers have access to both.
type TraceMiddleware struct {
	logger *slog.Logger
}

// NewTraceMiddleware creates a TraceMiddleware deriving request loggers from logger.
func NewTraceMiddleware(logger *slog.Logger) *TraceMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &TraceMiddleware{logger: logger}
}

// Trace is the middleware handler.
func (m *TraceMiddleware) Trace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())
		traceID := shared.GetTraceID(ctx)

		log := m.logger.With(slog.String("trace_id", traceID))
		ctx = logger.WithLogger(ctx, log)

		log.Debug("request started",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		w.Header().Set(TraceIDHeader, traceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
