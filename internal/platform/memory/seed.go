package memory

import (
	"context"
	"fmt"

	"github.com/phrazzld/relay-api/internal/domain"
)

// Seed fills the stores with a small sample data set so that a fresh
// gateway has something to list.
func Seed(ctx context.Context, users *UserStore, files *FileStore, messages *MessageStore) error {
	sampleUsers := []struct{ name, email string }{
		{"Ana Souza", "ana@example.com"},
		{"Bruno Lima", "bruno@example.com"},
		{"Carla Dias", "carla@example.com"},
	}
	for _, u := range sampleUsers {
		user, err := domain.NewUser(u.name, u.email)
		if err != nil {
			return fmt.Errorf("failed to build sample user: %w", err)
		}
		if err := users.Create(ctx, user); err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}
	}

	sampleFiles := []struct {
		name string
		size int64
	}{
		{"report.pdf", 245760},
		{"avatar.png", 51200},
	}
	for _, f := range sampleFiles {
		file, err := domain.NewFile(f.name, f.size, "")
		if err != nil {
			return fmt.Errorf("failed to build sample file: %w", err)
		}
		if err := files.Create(ctx, file); err != nil {
			return fmt.Errorf("failed to seed file: %w", err)
		}
	}

	sampleMessages := []struct{ from, to, content string }{
		{"Ana Souza", "Bruno Lima", "Welcome to the gateway!"},
		{"Bruno Lima", "Ana Souza", "Thanks, glad to be here."},
	}
	for _, m := range sampleMessages {
		msg, err := domain.NewMessage(m.from, m.to, m.content)
		if err != nil {
			return fmt.Errorf("failed to build sample message: %w", err)
		}
		if err := messages.Create(ctx, msg); err != nil {
			return fmt.Errorf("failed to seed message: %w", err)
		}
	}

	return nil
}
