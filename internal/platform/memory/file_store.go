package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/relay-api/internal/domain"
	"github.com/phrazzld/relay-api/internal/store"
)

// FileStore implements store.FileStore in memory.
type FileStore struct {
	mu        sync.RWMutex
	byID      map[uuid.UUID]domain.File
	order     []uuid.UUID
	totalSize int64
	logger    *slog.Logger
}

var _ store.FileStore = (*FileStore)(nil)

// NewFileStore creates an empty FileStore.
func NewFileStore(logger *slog.Logger) *FileStore {
	return &FileStore{
		byID:   make(map[uuid.UUID]domain.File),
		logger: logger.With("store", "file"),
	}
}

// Create implements store.FileStore.Create
func (s *FileStore) Create(ctx context.Context, file *domain.File) error {
	if err := file.Validate(); err != nil {
		return store.NewStoreError("file", "create", "validation failed",
			fmt.Errorf("%w: %w", store.ErrInvalidEntity, err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[file.ID]; exists {
		return store.NewStoreError("file", "create", "id already used", store.ErrDuplicate)
	}

	s.byID[file.ID] = *file
	s.order = append(s.order, file.ID)
	s.totalSize += file.Size

	s.logger.DebugContext(ctx, "file recorded", "file_id", file.ID, "size", file.Size)
	return nil
}

// GetByID implements store.FileStore.GetByID
func (s *FileStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	file, ok := s.byID[id]
	if !ok {
		return nil, store.ErrFileNotFound
	}
	return &file, nil
}

// List implements store.FileStore.List
func (s *FileStore) List(ctx context.Context) ([]*domain.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	files := make([]*domain.File, 0, len(s.order))
	for _, id := range s.order {
		file := s.byID[id]
		files = append(files, &file)
	}
	return files, nil
}

// Stats implements store.FileStore.Stats
func (s *FileStore) Stats(ctx context.Context) (int, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order), s.totalSize, nil
}
