package shared

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Envelope is the JSON wrapper every response is written in.
type Envelope struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Count     *int        `json:"count,omitempty"`
	Timestamp string      `json:"timestamp,omitempty"`
	Path      string      `json:"path,omitempty"`
	Method    string      `json:"method,omitempty"`
}

// RespondWithJSON writes a JSON response with the given status code and data.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response",
			"error", err,
			"path", r.URL.Path,
			"method", r.Method)
	}
}

// RespondWithData writes a success envelope around data, stamped with the
// request's arrival time.
func RespondWithData(w http.ResponseWriter, r *http.Request, status int, message string, data interface{}) {
	RespondWithJSON(w, r, status, Envelope{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: RequestTimestamp(r),
	})
}

// RespondWithList writes a success envelope around a collection and its size.
func RespondWithList(w http.ResponseWriter, r *http.Request, data interface{}, count int) {
	RespondWithJSON(w, r, http.StatusOK, Envelope{
		Success:   true,
		Data:      data,
		Count:     &count,
		Timestamp: RequestTimestamp(r),
	})
}
