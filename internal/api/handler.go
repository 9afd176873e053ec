package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/relay-api/internal/api/apierr"
	"github.com/phrazzld/relay-api/internal/api/middleware"
	"github.com/phrazzld/relay-api/internal/api/shared"
	"github.com/phrazzld/relay-api/internal/domain"
)

// HandlerFunc is an HTTP handler that reports failure by returning an error
// instead of writing an error response itself.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Handle adapts h to an http.HandlerFunc. A returned error is handed to the
// error normalizer, which writes the error envelope.
func Handle(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			middleware.Abort(r, err)
		}
	}
}

// newResourceRouter returns a sub-router whose unknown paths and methods
// fail through the error normalizer.
func newResourceRouter() chi.Router {
	r := chi.NewRouter()
	r.NotFound(Handle(func(w http.ResponseWriter, r *http.Request) error {
		return apierr.NotFound("Resource not found")
	}))
	r.MethodNotAllowed(Handle(func(w http.ResponseWriter, r *http.Request) error {
		return apierr.MethodNotAllowed(r.Method)
	}))
	return r
}

// decodeAndValidate fills v from the parsed body and runs struct validation.
func decodeAndValidate(r *http.Request, v interface{}) error {
	if err := shared.DecodeBody(r, v); err != nil {
		return apierr.Validation("Invalid request format", err)
	}
	if err := shared.ValidateRequest(v); err != nil {
		return apierr.Validation(SanitizeValidationError(err), err)
	}
	return nil
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apierr.Validation("Invalid id format", domain.ErrInvalidID)
	}
	return id, nil
}
