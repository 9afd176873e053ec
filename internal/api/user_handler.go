package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/relay-api/internal/api/shared"
	"github.com/phrazzld/relay-api/internal/domain"
	"github.com/phrazzld/relay-api/internal/platform/logger"
	"github.com/phrazzld/relay-api/internal/store"
)

// CreateUserRequest is the payload for POST /api/users.
type CreateUserRequest struct {
	Name  string `json:"name"  validate:"required,min=2,max=100"`
	Email string `json:"email" validate:"required,email"`
}

// UserHandler serves the users resource.
type UserHandler struct {
	users  store.UserStore
	logger *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users store.UserStore, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		logger: logger.With("handler", "users"),
	}
}

// Routes returns the sub-router mounted at /api/users.
func (h *UserHandler) Routes() http.Handler {
	r := newResourceRouter()
	r.Get("/", Handle(h.List))
	r.Post("/", Handle(h.Create))
	r.Get("/{id}", Handle(h.Get))
	return r
}

// List handles GET /api/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) error {
	users, err := h.users.List(r.Context())
	if err != nil {
		return MapStoreError(err, "User not found")
	}
	shared.RespondWithList(w, r, users, len(users))
	return nil
}

// Create handles POST /api/users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) error {
	var req CreateUserRequest
	if err := decodeAndValidate(r, &req); err != nil {
		return err
	}

	user, err := domain.NewUser(req.Name, req.Email)
	if err != nil {
		return MapStoreError(err, "")
	}
	if err := h.users.Create(r.Context(), user); err != nil {
		return MapStoreError(err, "")
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("user created", "user_id", user.ID)
	shared.RespondWithData(w, r, http.StatusCreated, "User created successfully", user)
	return nil
}

// Get handles GET /api/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}
	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		return MapStoreError(err, "User not found")
	}
	shared.RespondWithData(w, r, http.StatusOK, "", user)
	return nil
}
