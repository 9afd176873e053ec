package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/relay-api/internal/domain"
)

// MessageFilter narrows List results. Zero value matches everything.
type MessageFilter struct {
	// Party matches messages sent or received by this name (case-insensitive).
	Party string
}

// MessageStore persists messages.
type MessageStore interface {
	// Create saves a new message. Returns ErrInvalidEntity on validation failure.
	Create(ctx context.Context, msg *domain.Message) error

	// GetByID returns ErrMessageNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error)

	// List returns matching messages ordered by creation time.
	List(ctx context.Context, filter MessageFilter) ([]*domain.Message, error)

	// Count returns the number of stored messages.
	Count(ctx context.Context) (int, error)
}
