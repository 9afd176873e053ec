package api

import (
	"net/http"
	"runtime"

	"github.com/phrazzld/relay-api/internal/api/shared"
	"github.com/phrazzld/relay-api/internal/platform/metrics"
	"github.com/phrazzld/relay-api/internal/platform/sysinfo"
	"github.com/phrazzld/relay-api/internal/store"
)

// SystemMetrics describes the running process.
type SystemMetrics struct {
	Uptime       float64                `json:"uptime"`
	Memory       sysinfo.MemorySnapshot `json:"memory"`
	GoVersion    string                 `json:"goVersion"`
	NumCPU       int                    `json:"numCPU"`
	NumGoroutine int                    `json:"numGoroutine"`
}

// ResourceMetrics counts what the stores hold.
type ResourceMetrics struct {
	Users         int   `json:"users"`
	Files         int   `json:"files"`
	TotalFileSize int64 `json:"totalFileSize"`
	Messages      int   `json:"messages"`
}

// MetricsReport is the data payload of GET /api/metrics.
type MetricsReport struct {
	System    SystemMetrics     `json:"system"`
	Resources ResourceMetrics   `json:"resources"`
	Requests  *metrics.Snapshot `json:"requests,omitempty"`
}

// MetricsHandler reports process, resource and request metrics.
type MetricsHandler struct {
	users    store.UserStore
	files    store.FileStore
	messages store.MessageStore
	clock    sysinfo.Provider
	recorder *metrics.Recorder
}

// NewMetricsHandler creates a MetricsHandler. recorder may be nil, in which
// case request metrics are omitted and /prometheus is not served.
func NewMetricsHandler(
	users store.UserStore,
	files store.FileStore,
	messages store.MessageStore,
	clock sysinfo.Provider,
	recorder *metrics.Recorder,
) *MetricsHandler {
	return &MetricsHandler{
		users:    users,
		files:    files,
		messages: messages,
		clock:    clock,
		recorder: recorder,
	}
}

// Routes returns the sub-router mounted at /api/metrics.
func (h *MetricsHandler) Routes() http.Handler {
	r := newResourceRouter()
	r.Get("/", Handle(h.Report))
	if h.recorder != nil {
		r.Method(http.MethodGet, "/prometheus", h.recorder.Handler())
	}
	return r
}

// Report handles GET /api/metrics
func (h *MetricsHandler) Report(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	users, err := h.users.Count(ctx)
	if err != nil {
		return MapStoreError(err, "")
	}
	files, totalSize, err := h.files.Stats(ctx)
	if err != nil {
		return MapStoreError(err, "")
	}
	messages, err := h.messages.Count(ctx)
	if err != nil {
		return MapStoreError(err, "")
	}

	mem := h.clock.Memory()
	report := MetricsReport{
		System: SystemMetrics{
			Uptime:       h.clock.Uptime().Seconds(),
			Memory:       mem,
			GoVersion:    runtime.Version(),
			NumCPU:       runtime.NumCPU(),
			NumGoroutine: mem.NumGoroutine,
		},
		Resources: ResourceMetrics{
			Users:         users,
			Files:         files,
			TotalFileSize: totalSize,
			Messages:      messages,
		},
	}

	if h.recorder != nil {
		snap, err := h.recorder.Snapshot()
		if err != nil {
			return err
		}
		report.Requests = &snap
	}

	shared.RespondWithData(w, r, http.StatusOK, "", report)
	return nil
}
