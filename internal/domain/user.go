package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Validation errors for User.
var (
	ErrEmptyUserID  = fmt.Errorf("%w: user ID cannot be empty", ErrValidation)
	ErrEmptyName    = fmt.Errorf("%w: name cannot be empty", ErrValidation)
	ErrEmptyEmail   = fmt.Errorf("%w: email cannot be empty", ErrValidation)
	ErrInvalidEmail = fmt.Errorf("%w: invalid email format", ErrValidation)
)

// User is a registered user of the gateway's user resource.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewUser creates a User with a fresh ID. Returns an error if validation fails.
func NewUser(name, email string) (*User, error) {
	user := &User{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		CreatedAt: time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}
	if u.Name == "" {
		return ErrEmptyName
	}
	if u.Email == "" {
		return ErrEmptyEmail
	}
	if addr, err := mail.ParseAddress(u.Email); err != nil || addr.Address != u.Email {
		return ErrInvalidEmail
	}
	return nil
}
