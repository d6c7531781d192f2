package chat

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Choice is one inline action attached to a prompt. Data is the opaque
// callback payload the transport echoes back when the choice is pressed.
type Choice struct {
	Label string
	Data  string
}

// Prompt is a message card: text, an optional photo, optional follow-up
// sections sent as separate messages, and optional action choices.
type Prompt struct {
	Text     string
	PhotoURL string
	Sections []string
	Choices  []Choice
}

// WithoutChoices returns a copy of the prompt with the action choices
// stripped, for resolved re-sends.
func (p Prompt) WithoutChoices() Prompt {
	p.Choices = nil
	return p
}

// DeliveryOutcome reports one successful send.
type DeliveryOutcome struct {
	ID          uuid.UUID
	RecipientID int64
	SentAt      time.Time
}

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_sender.go -package=mocks . Sender

// Sender is the outbound side of the chat transport.
type Sender interface {
	SendPrompt(ctx context.Context, recipientID int64, p Prompt) (*DeliveryOutcome, error)
	SendText(ctx context.Context, recipientID int64, text string) (*DeliveryOutcome, error)
}
