package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/phrazzld/relay-api/internal/api/apierr"
	"github.com/phrazzld/relay-api/internal/api/shared"
	"github.com/phrazzld/relay-api/internal/domain"
	"github.com/phrazzld/relay-api/internal/platform/logger"
	"github.com/phrazzld/relay-api/internal/store"
)

// UploadFileRequest is the payload for POST /api/files. Only metadata is
// accepted; the upload itself is simulated. Size is a json.Number so that
// form-encoded bodies (where every value is a string) decode too.
type UploadFileRequest struct {
	Name     string      `json:"name"     validate:"required,max=255"`
	Size     json.Number `json:"size"     validate:"required"`
	MimeType string      `json:"mimeType" validate:"omitempty,max=127"`
}

// FileHandler serves the files resource.
type FileHandler struct {
	files  store.FileStore
	logger *slog.Logger
}

// NewFileHandler creates a FileHandler.
func NewFileHandler(files store.FileStore, logger *slog.Logger) *FileHandler {
	return &FileHandler{
		files:  files,
		logger: logger.With("handler", "files"),
	}
}

// Routes returns the sub-router mounted at /api/files.
func (h *FileHandler) Routes() http.Handler {
	r := newResourceRouter()
	r.Get("/", Handle(h.List))
	r.Post("/", Handle(h.Upload))
	r.Get("/{id}", Handle(h.Get))
	return r
}

// List handles GET /api/files
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) error {
	files, err := h.files.List(r.Context())
	if err != nil {
		return MapStoreError(err, "File not found")
	}
	shared.RespondWithList(w, r, files, len(files))
	return nil
}

// Upload handles POST /api/files
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) error {
	var req UploadFileRequest
	if err := decodeAndValidate(r, &req); err != nil {
		return err
	}

	size, err := req.Size.Int64()
	if err != nil {
		return apierr.Validation("Invalid size: must be an integer", err)
	}

	file, err := domain.NewFile(req.Name, size, req.MimeType)
	if err != nil {
		return MapStoreError(err, "")
	}
	if err := h.files.Create(r.Context(), file); err != nil {
		return MapStoreError(err, "")
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("file upload simulated",
		"file_id", file.ID,
		"size", file.Size,
		"mime_type", file.MimeType)
	shared.RespondWithData(w, r, http.StatusCreated, "File uploaded successfully", file)
	return nil
}

// Get handles GET /api/files/{id}
func (h *FileHandler) Get(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}
	file, err := h.files.GetByID(r.Context(), id)
	if err != nil {
		return MapStoreError(err, "File not found")
	}
	shared.RespondWithData(w, r, http.StatusOK, "", file)
	return nil
}
