package api

import (
	"encoding/json"
	"net/http"

	"github.com/phrazzld/relay-api/internal/api/shared"
	"github.com/phrazzld/relay-api/internal/config"
	"github.com/phrazzld/relay-api/internal/platform/sysinfo"
)

// apiInfo is the body of GET /. It carries no timestamp so that repeated
// calls return identical bytes.
type apiInfo struct {
	Success       bool              `json:"success"`
	Message       string            `json:"message"`
	Version       string            `json:"version"`
	Endpoints     map[string]string `json:"endpoints"`
	Documentation string            `json:"documentation"`
}

// statusReport is the body of GET /status.
type statusReport struct {
	Success   bool                   `json:"success"`
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Uptime    float64                `json:"uptime"`
	Memory    sysinfo.MemorySnapshot `json:"memory"`
	Version   string                 `json:"version"`
}

// InfoHandler serves the static informational routes.
type InfoHandler struct {
	info    []byte
	version string
	clock   sysinfo.Provider
}

// NewInfoHandler renders the GET / body once from the API settings and the
// resource mount points (name -> prefix).
func NewInfoHandler(cfg config.APIConfig, mounts map[string]string, clock sysinfo.Provider) (*InfoHandler, error) {
	body, err := json.Marshal(apiInfo{
		Success:       true,
		Message:       cfg.Name,
		Version:       cfg.Version,
		Endpoints:     mounts,
		Documentation: cfg.Documentation,
	})
	if err != nil {
		return nil, err
	}
	return &InfoHandler{
		info:    append(body, '\n'),
		version: cfg.Version,
		clock:   clock,
	}, nil
}

// Root handles GET /
func (h *InfoHandler) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.info)
}

// Status handles GET /status. Every field is read at call time.
func (h *InfoHandler) Status(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, statusReport{
		Success:   true,
		Status:    "online",
		Timestamp: sysinfo.Timestamp(h.clock.Now()),
		Uptime:    h.clock.Uptime().Seconds(),
		Memory:    h.clock.Memory(),
		Version:   h.version,
	})
}

// NotFound is the catch-all handler for requests no route claims.
func NotFound(clock sysinfo.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusNotFound, shared.Envelope{
			Success:   false,
			Message:   "Route not found",
			Path:      r.URL.RequestURI(),
			Method:    r.Method,
			Timestamp: sysinfo.Timestamp(clock.Now()),
		})
	}
}
