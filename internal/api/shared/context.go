package shared

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/relay-api/internal/platform/sysinfo"
)

// ContextKey is the key type for values this package stores in a context.
type ContextKey string

// Context keys for request-scoped values.
const (
	// BodyContextKey holds the body decoded by the body parsers.
	BodyContextKey ContextKey = "body"

	// ArrivedAtContextKey holds the time the request entered the pipeline.
	ArrivedAtContextKey ContextKey = "arrivedAt"
)

// WithBody stores a parsed request body.
func WithBody(ctx context.Context, body map[string]interface{}) context.Context {
	return context.WithValue(ctx, BodyContextKey, body)
}

// BodyFromContext returns the parsed body, or nil when the request had none.
func BodyFromContext(ctx context.Context) map[string]interface{} {
	body, _ := ctx.Value(BodyContextKey).(map[string]interface{})
	return body
}

// WithArrivalTime records when the request arrived.
func WithArrivalTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ArrivedAtContextKey, t)
}

// ArrivedAt returns the recorded arrival time, or the current time when none
// was recorded.
func ArrivedAt(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ArrivedAtContextKey).(time.Time); ok {
		return t
	}
	return time.Now().UTC()
}

// RequestTimestamp formats the request's arrival time.
func RequestTimestamp(r *http.Request) string {
	return sysinfo.Timestamp(ArrivedAt(r.Context()))
}

// GetTraceID returns the request id assigned by chi's RequestID middleware.
func GetTraceID(ctx context.Context) string {
	return middleware.GetReqID(ctx)
}
