package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/goods-gate/goods-gate/internal/domain/chat"
)

const defaultAPIBase = "https://api.telegram.org"

// Client implements chat.Sender over the Telegram Bot API. Prompts with a
// photo go out as photo messages with the text as caption; inline choices
// become a one-button-per-row keyboard. Extra sections are delivered as
// follow-up plain messages so a long card never hits the caption limit.
type Client struct {
	apiBase string
	token   string
	http    *http.Client
	logger  zerolog.Logger
}

func NewClient(token string, logger zerolog.Logger) *Client {
	return &Client{
		apiBase: defaultAPIBase,
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  logger.With().Str("service", "telegram").Logger(),
	}
}

// NewClientWithBase is used by tests to point the client at a fake API.
func NewClientWithBase(base, token string, logger zerolog.Logger) *Client {
	c := NewClient(token, logger)
	c.apiBase = base
	return c
}

type inlineButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

type inlineKeyboard struct {
	InlineKeyboard [][]inlineButton `json:"inline_keyboard"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (c *Client) SendPrompt(ctx context.Context, recipientID int64, p chat.Prompt) (*chat.DeliveryOutcome, error) {
	payload := map[string]interface{}{
		"chat_id": recipientID,
	}
	method := "sendMessage"
	if p.PhotoURL != "" {
		method = "sendPhoto"
		payload["photo"] = p.PhotoURL
		payload["caption"] = p.Text
	} else {
		payload["text"] = p.Text
	}
	if len(p.Choices) > 0 {
		rows := make([][]inlineButton, 0, len(p.Choices))
		for _, ch := range p.Choices {
			rows = append(rows, []inlineButton{{Text: ch.Label, CallbackData: ch.Data}})
		}
		payload["reply_markup"] = inlineKeyboard{InlineKeyboard: rows}
	}

	if err := c.call(ctx, method, payload); err != nil {
		return nil, fmt.Errorf("send prompt to %d: %w", recipientID, err)
	}
	for _, section := range p.Sections {
		if err := c.call(ctx, "sendMessage", map[string]interface{}{
			"chat_id": recipientID,
			"text":    section,
		}); err != nil {
			c.logger.Warn().Err(err).Int64("recipient_id", recipientID).Msg("section delivery failed")
		}
	}
	return &chat.DeliveryOutcome{
		ID:          uuid.New(),
		RecipientID: recipientID,
		SentAt:      time.Now().UTC(),
	}, nil
}

func (c *Client) SendText(ctx context.Context, recipientID int64, text string) (*chat.DeliveryOutcome, error) {
	err := c.call(ctx, "sendMessage", map[string]interface{}{
		"chat_id": recipientID,
		"text":    text,
	})
	if err != nil {
		return nil, fmt.Errorf("send text to %d: %w", recipientID, err)
	}
	return &chat.DeliveryOutcome{
		ID:          uuid.New(),
		RecipientID: recipientID,
		SentAt:      time.Now().UTC(),
	}, nil
}

// AnswerCallback acknowledges an inline-choice press so the client stops
// showing a spinner. Failures are logged, never propagated.
func (c *Client) AnswerCallback(ctx context.Context, callbackID string) {
	err := c.call(ctx, "answerCallbackQuery", map[string]interface{}{
		"callback_query_id": callbackID,
	})
	if err != nil {
		c.logger.Warn().Err(err).Str("callback_id", callbackID).Msg("callback answer failed")
	}
}

func (c *Client) call(ctx context.Context, method string, payload map[string]interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s/bot%s/%s", c.apiBase, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("%s: decode response: %w", method, err)
	}
	if !out.OK {
		return fmt.Errorf("%s: api error: %s", method, out.Description)
	}
	return nil
}

var _ chat.Sender = (*Client)(nil)
