package telegram

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	appNegotiation "github.com/goods-gate/goods-gate/internal/application/negotiation"
)

// Update is the subset of the Bot API update payload the dispatcher reads.
type Update struct {
	UpdateID int64          `json:"update_id"`
	Message  *Message       `json:"message"`
	Callback *CallbackQuery `json:"callback_query"`
}

type Message struct {
	From *User  `json:"from"`
	Chat *Chat  `json:"chat"`
	Text string `json:"text"`
}

type CallbackQuery struct {
	ID   string `json:"id"`
	From *User  `json:"from"`
	Data string `json:"data"`
}

type User struct {
	ID int64 `json:"id"`
}

type Chat struct {
	ID int64 `json:"id"`
}

// Dispatcher maps raw webhook updates onto negotiation operations. Malformed
// updates are logged and dropped; they never fail the webhook delivery.
type Dispatcher struct {
	router *appNegotiation.Router
	client *Client
	logger zerolog.Logger
}

func NewDispatcher(router *appNegotiation.Router, client *Client, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		router: router,
		client: client,
		logger: logger.With().Str("service", "dispatcher").Logger(),
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, upd Update) {
	switch {
	case upd.Message != nil && upd.Message.From != nil:
		d.dispatchMessage(ctx, upd.Message)
	case upd.Callback != nil && upd.Callback.From != nil:
		d.dispatchCallback(ctx, upd.Callback)
	default:
		d.logger.Debug().Int64("update_id", upd.UpdateID).Msg("ignoring unsupported update")
	}
}

func (d *Dispatcher) dispatchMessage(ctx context.Context, msg *Message) {
	requesterID := msg.From.ID
	text := strings.TrimSpace(msg.Text)

	var err error
	if strings.HasPrefix(text, "/start") {
		err = d.router.Start(ctx, requesterID)
	} else {
		err = d.router.HandleText(ctx, requesterID, text)
	}
	if err != nil {
		d.logger.Error().Err(err).Int64("requester_id", requesterID).Msg("message handling failed")
	}
}

func (d *Dispatcher) dispatchCallback(ctx context.Context, cb *CallbackQuery) {
	d.client.AnswerCallback(ctx, cb.ID)
	senderID := cb.From.ID

	var err error
	switch {
	case appNegotiation.IsDecisionData(cb.Data):
		ev, ok := appNegotiation.ParseDecisionData(cb.Data)
		if !ok {
			d.logger.Warn().Str("data", cb.Data).Msg("dropping malformed decision payload")
			return
		}
		ev.ApproverID = senderID
		err = d.router.HandleDecision(ctx, ev)
	case cb.Data == appNegotiation.DataRequestProduct:
		err = d.router.RequestProduct(ctx, senderID)
	case cb.Data == appNegotiation.DataChangeProduct:
		err = d.router.ChangeProduct(ctx, senderID)
	case cb.Data == appNegotiation.DataUrgent:
		err = d.router.ChooseUrgency(ctx, senderID, true)
	case cb.Data == appNegotiation.DataNormal:
		err = d.router.ChooseUrgency(ctx, senderID, false)
	case cb.Data == appNegotiation.DataSelfDelivery:
		err = d.router.ChooseSelfDelivery(ctx, senderID)
	case cb.Data == appNegotiation.DataOrderFromLocation:
		err = d.router.OrderFromLocation(ctx, senderID)
	case cb.Data == appNegotiation.DataConfirmOrder:
		err = d.router.ConfirmOrder(ctx, senderID)
	default:
		if locationID, ok := appNegotiation.ParsePickLocation(cb.Data); ok {
			err = d.router.SelectLocation(ctx, senderID, locationID)
		} else {
			d.logger.Warn().Str("data", cb.Data).Msg("dropping unknown callback payload")
			return
		}
	}
	if err != nil {
		d.logger.Error().Err(err).Int64("sender_id", senderID).Str("data", cb.Data).Msg("callback handling failed")
	}
}
