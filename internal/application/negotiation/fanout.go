package negotiation

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/goods-gate/goods-gate/internal/domain/chat"
	domainNegotiation "github.com/goods-gate/goods-gate/internal/domain/negotiation"
)

// Fanout delivers one prompt to every member of an approver group. Delivery
// is best-effort and independent per recipient: one failed send never aborts
// the rest.
type Fanout struct {
	sender chat.Sender
	logger zerolog.Logger
}

func NewFanout(sender chat.Sender, logger zerolog.Logger) *Fanout {
	return &Fanout{
		sender: sender,
		logger: logger.With().Str("service", "fanout").Logger(),
	}
}

// Broadcast sends p to every group member and returns how many deliveries
// succeeded. An empty group is a configuration error, not a silent no-op.
func (f *Fanout) Broadcast(ctx context.Context, group []int64, p chat.Prompt) (int, error) {
	if len(group) == 0 {
		return 0, domainNegotiation.ErrNoApprovers
	}
	delivered := 0
	for _, approverID := range group {
		if _, err := f.sender.SendPrompt(ctx, approverID, p); err != nil {
			f.logger.Error().Err(err).Int64("approver_id", approverID).Msg("prompt delivery failed")
			continue
		}
		delivered++
	}
	return delivered, nil
}

// Resolve re-sends the card to every group member with the action choices
// stripped and a resolution banner prepended. A new terminal message is sent
// instead of editing the originals: the transport does not guarantee old
// sends stay editable for every recipient.
func (f *Fanout) Resolve(ctx context.Context, group []int64, banner string, card chat.Prompt) {
	resolved := card.WithoutChoices()
	resolved.Sections = nil
	resolved.Text = banner + "\n" + card.Text
	for _, approverID := range group {
		if _, err := f.sender.SendPrompt(ctx, approverID, resolved); err != nil {
			f.logger.Error().Err(err).Int64("approver_id", approverID).Msg("resolution delivery failed")
		}
	}
}

// Notify sends a plain text to every group member, best-effort.
func (f *Fanout) Notify(ctx context.Context, group []int64, text string) {
	for _, approverID := range group {
		if _, err := f.sender.SendText(ctx, approverID, text); err != nil {
			f.logger.Error().Err(err).Int64("approver_id", approverID).Msg("notice delivery failed")
		}
	}
}
