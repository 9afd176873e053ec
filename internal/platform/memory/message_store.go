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

// MessageStore implements store.MessageStore in memory.
type MessageStore struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]domain.Message
	order  []uuid.UUID
	logger *slog.Logger
}

var _ store.MessageStore = (*MessageStore)(nil)

// NewMessageStore creates an empty MessageStore.
func NewMessageStore(logger *slog.Logger) *MessageStore {
	return &MessageStore{
		byID:   make(map[uuid.UUID]domain.Message),
		logger: logger.With("store", "message"),
	}
}

// Create implements store.MessageStore.Create
func (s *MessageStore) Create(ctx context.Context, msg *domain.Message) error {
	if err := msg.Validate(); err != nil {
		return store.NewStoreError("message", "create", "validation failed",
			fmt.Errorf("%w: %w", store.ErrInvalidEntity, err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[msg.ID]; exists {
		return store.NewStoreError("message", "create", "id already used", store.ErrDuplicate)
	}

	s.byID[msg.ID] = *msg
	s.order = append(s.order, msg.ID)

	s.logger.DebugContext(ctx, "message created", "message_id", msg.ID)
	return nil
}

// GetByID implements store.MessageStore.GetByID
func (s *MessageStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg, ok := s.byID[id]
	if !ok {
		return nil, store.ErrMessageNotFound
	}
	return &msg, nil
}

// List implements store.MessageStore.List
func (s *MessageStore) List(ctx context.Context, filter store.MessageFilter) ([]*domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := make([]*domain.Message, 0, len(s.order))
	for _, id := range s.order {
		msg := s.byID[id]
		if filter.Party != "" && !msg.Involves(filter.Party) {
			continue
		}
		msgs = append(msgs, &msg)
	}
	return msgs, nil
}

// Count implements store.MessageStore.Count
func (s *MessageStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order), nil
}
