package middleware

import (
	"log/slog"
	"net/http"

	"github.com/elchalten/connect-api/internal/api/shared"
)

// TraceMiddleware stamps every request with a trace ID. It runs first in
// the chain so the ID is available to every later log line and to the
// trace_id field of error responses.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())

		slog.Debug("request started",
			slog.String("trace_id", shared.GetTraceID(ctx)),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
