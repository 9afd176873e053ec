package middleware

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/relay-api/internal/api/shared"
	"github.com/phrazzld/relay-api/internal/platform/logger"
	"github.com/phrazzld/relay-api/internal/platform/sysinfo"
)

// RequestLogger records method, path and arrival timestamp of every request
// that reaches it. Logging never blocks or fails the request: a panicking
// handler is swallowed and the chain continues.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logRequest(logger.FromContextOrDefault(r.Context(), base), r)
			next.ServeHTTP(w, r)
		})
	}
}

func logRequest(log *slog.Logger, r *http.Request) {
	defer func() {
		_ = recover()
	}()

	log.Info("request",
		slog.String("method", r.Method),
		slog.String("path", r.URL.RequestURI()),
		slog.String("timestamp", sysinfo.Timestamp(shared.ArrivedAt(r.Context()))))
}
