package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/relay-api/internal/domain"
	"github.com/phrazzld/relay-api/internal/platform/logger"
	"github.com/phrazzld/relay-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserStore(t *testing.T) {
	log, _ := logger.GetTestLogger(t)
	s := NewUserStore(log)
	ctx := context.Background()

	ana, err := domain.NewUser("Ana", "ana@example.com")
	require.NoError(t, err)
	require.NoError(t, s.Create(ctx, ana))

	t.Run("duplicate email", func(t *testing.T) {
		dup, err := domain.NewUser("Other Ana", "ana@example.com")
		require.NoError(t, err)
		err = s.Create(ctx, dup)
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})

	t.Run("invalid entity", func(t *testing.T) {
		err := s.Create(ctx, &domain.User{ID: uuid.New(), Name: "x"})
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
		assert.ErrorIs(t, err, domain.ErrEmptyEmail)
	})

	t.Run("get by id", func(t *testing.T) {
		got, err := s.GetByID(ctx, ana.ID)
		require.NoError(t, err)
		assert.Equal(t, ana.Email, got.Email)

		got.Name = "mutated"
		again, err := s.GetByID(ctx, ana.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ana", again.Name, "returned users must be copies")

		_, err = s.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("list and count", func(t *testing.T) {
		bruno, err := domain.NewUser("Bruno", "bruno@example.com")
		require.NoError(t, err)
		require.NoError(t, s.Create(ctx, bruno))

		users, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, ana.ID, users[0].ID)
		assert.Equal(t, bruno.ID, users[1].ID)

		n, err := s.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})
}

func TestFileStoreStats(t *testing.T) {
	log, _ := logger.GetTestLogger(t)
	s := NewFileStore(log)
	ctx := context.Background()

	for _, size := range []int64{10, 20, 30} {
		f, err := domain.NewFile("a.txt", size, "")
		require.NoError(t, err)
		require.NoError(t, s.Create(ctx, f))
	}

	count, total, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, int64(60), total)

	_, err = s.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrFileNotFound)
}

func TestMessageStoreFilter(t *testing.T) {
	log, _ := logger.GetTestLogger(t)
	s := NewMessageStore(log)
	ctx := context.Background()

	for _, m := range [][2]string{{"ana", "bruno"}, {"bruno", "carla"}, {"carla", "ana"}} {
		msg, err := domain.NewMessage(m[0], m[1], "hi")
		require.NoError(t, err)
		require.NoError(t, s.Create(ctx, msg))
	}

	all, err := s.List(ctx, store.MessageFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	forAna, err := s.List(ctx, store.MessageFilter{Party: "ANA"})
	require.NoError(t, err)
	assert.Len(t, forAna, 2)

	_, err = s.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrMessageNotFound)
}

func TestStoresConcurrentCreate(t *testing.T) {
	log, _ := logger.GetTestLogger(t)
	s := NewMessageStore(log)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			msg, err := domain.NewMessage("a", "b", "c")
			if err == nil {
				_ = s.Create(ctx, msg)
			}
		}()
	}
	wg.Wait()

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50, n)
}

func TestSeed(t *testing.T) {
	log, _ := logger.GetTestLogger(t)
	users, files, messages := NewUserStore(log), NewFileStore(log), NewMessageStore(log)

	require.NoError(t, Seed(context.Background(), users, files, messages))

	n, _ := users.Count(context.Background())
	assert.Equal(t, 3, n)
	fc, _, _ := files.Stats(context.Background())
	assert.Equal(t, 2, fc)
	mc, _ := messages.Count(context.Background())
	assert.Equal(t, 2, mc)
}
