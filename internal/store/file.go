package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/relay-api/internal/domain"
)

// FileStore persists file metadata.
type FileStore interface {
	// Create saves new file metadata. Returns ErrInvalidEntity on validation failure.
	Create(ctx context.Context, file *domain.File) error

	// GetByID returns ErrFileNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.File, error)

	// List returns all files ordered by upload time.
	List(ctx context.Context) ([]*domain.File, error)

	// Stats returns the number of files and their combined size in bytes.
	Stats(ctx context.Context) (count int, totalSize int64, err error)
}
