// Package middleware provides HTTP middleware for the API: trace-ID
// injection and user identification.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/lexikon/lexikon-api/internal/api/shared"
	"github.com/lexikon/lexikon-api/internal/platform/logger"
)

// TraceMiddleware adds a trace ID to the request context and stores a
// request-scoped logger carrying that trace ID, so every downstream log
// line of the request correlates. Apply it early in the middleware chain.
type TraceMiddleware struct {
	logger *slog.Logger
}

// NewTraceMiddleware creates a trace middleware using the given base logger.
func NewTraceMiddleware(log *slog.Logger) *TraceMiddleware {
	if log == nil {
		log = slog.Default()
	}
	return &TraceMiddleware{logger: log}
}

// Handler wraps the next handler with trace-ID injection.
func (m *TraceMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())

		requestLogger := m.logger.With(slog.String("trace_id", shared.GetTraceID(ctx)))
		ctx = logger.WithLogger(ctx, requestLogger)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
