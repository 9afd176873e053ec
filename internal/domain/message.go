package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxMessageLength bounds message content, in runes.
const MaxMessageLength = 1000

// Validation errors for Message.
var (
	ErrEmptyMessageID      = fmt.Errorf("%w: message ID cannot be empty", ErrValidation)
	ErrEmptySender         = fmt.Errorf("%w: sender cannot be empty", ErrValidation)
	ErrEmptyRecipient      = fmt.Errorf("%w: recipient cannot be empty", ErrValidation)
	ErrEmptyMessageContent = fmt.Errorf("%w: content cannot be empty", ErrValidation)
	ErrMessageTooLong      = fmt.Errorf("%w: content exceeds %d characters", ErrValidation, MaxMessageLength)
)

// Message is a note sent from one party to another.
type Message struct {
	ID        uuid.UUID `json:"id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewMessage creates a Message with a fresh ID.
func NewMessage(from, to, content string) (*Message, error) {
	msg := &Message{
		ID:        uuid.New(),
		From:      strings.TrimSpace(from),
		To:        strings.TrimSpace(to),
		Content:   strings.TrimSpace(content),
		CreatedAt: time.Now().UTC(),
	}

	if err := msg.Validate(); err != nil {
		return nil, err
	}

	return msg, nil
}

// Validate checks if the Message has valid data.
func (m *Message) Validate() error {
	switch {
	case m.ID == uuid.Nil:
		return ErrEmptyMessageID
	case m.From == "":
		return ErrEmptySender
	case m.To == "":
		return ErrEmptyRecipient
	case m.Content == "":
		return ErrEmptyMessageContent
	case len([]rune(m.Content)) > MaxMessageLength:
		return ErrMessageTooLong
	}
	return nil
}

// Involves reports whether party sent or received the message.
func (m *Message) Involves(party string) bool {
	return strings.EqualFold(m.From, party) || strings.EqualFold(m.To, party)
}
