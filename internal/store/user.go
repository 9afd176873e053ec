package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/relay-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user.
	// Returns ErrEmailExists if the email is already taken and
	// ErrInvalidEntity if the user fails validation.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID. Returns ErrUserNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// List returns all users ordered by creation time.
	List(ctx context.Context) ([]*domain.User, error)

	// Count returns the number of stored users.
	Count(ctx context.Context) (int, error)
}
