// Package metrics records request counts and latencies in a Prometheus
// registry owned by the gateway.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "relay"

// unmatchedRoute labels requests that matched no route pattern.
const unmatchedRoute = "unmatched"

// Recorder owns the registry and the HTTP collectors.
type Recorder struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

// NewRecorder creates a Recorder with its own registry, including the Go
// runtime and process collectors.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()

	r := &Recorder{
		registry: reg,
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by method, route and status.",
			},
			[]string{"method", "route", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		inFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Number of requests currently being served.",
			},
		),
	}

	reg.MustRegister(
		r.requests,
		r.duration,
		r.inFlight,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// Middleware observes every request passing through it. It is meant to be
// the outermost handler: it installs the chi routing context itself so the
// matched route pattern is still visible once the request has been served.
func (rec *Recorder) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec.inFlight.Inc()
		defer rec.inFlight.Dec()

		rctx := chi.RouteContext(r.Context())
		if rctx == nil {
			rctx = chi.NewRouteContext()
			r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
		}

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := rctx.RoutePattern()
		if route == "" {
			route = unmatchedRoute
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		rec.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		rec.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the registry in the Prometheus text exposition format.
func (rec *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(rec.registry, promhttp.HandlerOpts{})
}

// Snapshot is a JSON-friendly summary of the HTTP collectors.
type Snapshot struct {
	Total    uint64            `json:"total"`
	InFlight int64             `json:"inFlight"`
	ByStatus map[string]uint64 `json:"byStatus"`
	ByRoute  map[string]uint64 `json:"byRoute"`
}

// Snapshot gathers the registry and sums the request counters.
func (rec *Recorder) Snapshot() (Snapshot, error) {
	families, err := rec.registry.Gather()
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to gather metrics: %w", err)
	}

	snap := Snapshot{
		ByStatus: make(map[string]uint64),
		ByRoute:  make(map[string]uint64),
	}
	for _, mf := range families {
		switch mf.GetName() {
		case namespace + "_http_requests_total":
			for _, m := range mf.GetMetric() {
				n := uint64(m.GetCounter().GetValue())
				snap.Total += n
				snap.ByStatus[labelValue(m, "status")] += n
				snap.ByRoute[labelValue(m, "route")] += n
			}
		case namespace + "_http_requests_in_flight":
			for _, m := range mf.GetMetric() {
				snap.InFlight += int64(m.GetGauge().GetValue())
			}
		}
	}
	return snap, nil
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}
