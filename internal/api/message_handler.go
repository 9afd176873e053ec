package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/relay-api/internal/api/shared"
	"github.com/phrazzld/relay-api/internal/domain"
	"github.com/phrazzld/relay-api/internal/platform/logger"
	"github.com/phrazzld/relay-api/internal/store"
)

// CreateMessageRequest is the payload for POST /api/messages.
type CreateMessageRequest struct {
	From    string `json:"from"    validate:"required,max=100"`
	To      string `json:"to"      validate:"required,max=100"`
	Content string `json:"content" validate:"required,max=1000"`
}

// MessageHandler serves the messages resource.
type MessageHandler struct {
	messages store.MessageStore
	logger   *slog.Logger
}

// NewMessageHandler creates a MessageHandler.
func NewMessageHandler(messages store.MessageStore, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{
		messages: messages,
		logger:   logger.With("handler", "messages"),
	}
}

// Routes returns the sub-router mounted at /api/messages.
func (h *MessageHandler) Routes() http.Handler {
	r := newResourceRouter()
	r.Get("/", Handle(h.List))
	r.Post("/", Handle(h.Create))
	r.Get("/{id}", Handle(h.Get))
	return r
}

// List handles GET /api/messages. ?user=name keeps messages sent or
// received by name.
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) error {
	filter := store.MessageFilter{Party: r.URL.Query().Get("user")}
	msgs, err := h.messages.List(r.Context(), filter)
	if err != nil {
		return MapStoreError(err, "Message not found")
	}
	shared.RespondWithList(w, r, msgs, len(msgs))
	return nil
}

// Create handles POST /api/messages
func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) error {
	var req CreateMessageRequest
	if err := decodeAndValidate(r, &req); err != nil {
		return err
	}

	msg, err := domain.NewMessage(req.From, req.To, req.Content)
	if err != nil {
		return MapStoreError(err, "")
	}
	if err := h.messages.Create(r.Context(), msg); err != nil {
		return MapStoreError(err, "")
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("message created", "message_id", msg.ID)
	shared.RespondWithData(w, r, http.StatusCreated, "Message created successfully", msg)
	return nil
}

// Get handles GET /api/messages/{id}
func (h *MessageHandler) Get(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}
	msg, err := h.messages.GetByID(r.Context(), id)
	if err != nil {
		return MapStoreError(err, "Message not found")
	}
	shared.RespondWithData(w, r, http.StatusOK, "", msg)
	return nil
}
