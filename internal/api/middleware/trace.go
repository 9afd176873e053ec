package middleware

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/relay-api/internal/api/shared"
	"github.com/phrazzld/relay-api/internal/platform/logger"
)

// RequestScopedLogger stores a logger tagged with the request id on the
// request context. It must run after chi's RequestID middleware so that
// every later log line for the request can be correlated.
func RequestScopedLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := base
			if reqID := shared.GetTraceID(r.Context()); reqID != "" {
				log = base.With(slog.String("request_id", reqID))
			}

			log.Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			next.ServeHTTP(w, r.WithContext(logger.WithLogger(r.Context(), log)))
		})
	}
}
