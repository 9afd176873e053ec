package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/relay-api/internal/api/apierr"
	"github.com/phrazzld/relay-api/internal/api/shared"
	"github.com/phrazzld/relay-api/internal/platform/sysinfo"
	"github.com/phrazzld/relay-api/internal/redact"
)

type errorSlotKey struct{}

// errorSlot holds the first failure reported for a request.
type errorSlot struct {
	err error
}

// Abort hands err to the error normalizer. The caller must return without
// writing to the response or calling the next handler. Only the first
// reported error is kept.
func Abort(r *http.Request, err error) {
	if err == nil {
		return
	}
	slot, ok := r.Context().Value(errorSlotKey{}).(*errorSlot)
	if !ok {
		slog.Error("request aborted outside the error normalizer",
			"error", redact.Error(err),
			"path", r.URL.Path,
			"method", r.Method)
		return
	}
	if slot.err == nil {
		slot.err = err
	}
}

// ErrorNormalizer wraps the whole pipeline and guarantees that every request
// ends with exactly one JSON envelope. Failures reported through Abort and
// panics are turned into {success:false, message, timestamp, path} with the
// error's own status or 500. If the response has already been started the
// failure is only logged.
func ErrorNormalizer(logger *slog.Logger, clock sysinfo.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			slot := &errorSlot{}
			ctx := context.WithValue(r.Context(), errorSlotKey{}, slot)
			ctx = shared.WithArrivalTime(ctx, clock.Now())
			r = r.WithContext(ctx)

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						return
					}
					slot.err = apierr.Handler(http.StatusInternalServerError, "",
						fmt.Errorf("panic: %v", rec))
				}
				if slot.err == nil {
					return
				}
				writeError(ww, r, logger, clock, slot.err)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

func writeError(ww chimw.WrapResponseWriter, r *http.Request, logger *slog.Logger, clock sysinfo.Provider, err error) {
	status := apierr.StatusCode(err)
	e := apierr.Normalize(err)

	attrs := []slog.Attr{
		slog.String("request_id", shared.GetTraceID(r.Context())),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.String("kind", string(e.Kind)),
		slog.String("error", redact.Error(err)),
	}

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}

	if ww.Status() != 0 || ww.BytesWritten() > 0 {
		attrs = append(attrs, slog.Int("written_status", ww.Status()))
		logger.LogAttrs(r.Context(), slog.LevelError, "request failed after response was started", attrs...)
		return
	}

	logger.LogAttrs(r.Context(), level, "request failed", attrs...)

	shared.RespondWithJSON(ww, r, status, shared.Envelope{
		Success:   false,
		Message:   apierr.PublicMessage(err),
		Timestamp: sysinfo.Timestamp(clock.Now()),
		Path:      r.URL.RequestURI(),
	})
}

// IsAborted reports whether a failure has already been reported for r.
func IsAborted(r *http.Request) bool {
	slot, ok := r.Context().Value(errorSlotKey{}).(*errorSlot)
	return ok && slot.err != nil
}
