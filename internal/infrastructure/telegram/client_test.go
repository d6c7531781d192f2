package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goods-gate/goods-gate/internal/domain/chat"
)

type apiCall struct {
	path string
	body map[string]interface{}
}

// fakeAPI records Bot API calls and answers ok.
type fakeAPI struct {
	mu    sync.Mutex
	calls []apiCall
	fail  bool
}

func (f *fakeAPI) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.calls = append(f.calls, apiCall{path: r.URL.Path, body: body})
		f.mu.Unlock()
		if f.fail {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"ok": false, "description": "chat not found"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"ok": true})
	})
}

func (f *fakeAPI) recorded() []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]apiCall(nil), f.calls...)
}

func TestSendText(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler())
	defer srv.Close()
	c := NewClientWithBase(srv.URL, "tok", zerolog.Nop())

	outcome, err := c.SendText(context.Background(), 777, "Вітаю!")
	require.NoError(t, err)
	assert.Equal(t, int64(777), outcome.RecipientID)
	assert.NotZero(t, outcome.ID)
	assert.False(t, outcome.SentAt.IsZero())

	calls := api.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, "/bottok/sendMessage", calls[0].path)
	assert.Equal(t, float64(777), calls[0].body["chat_id"])
	assert.Equal(t, "Вітаю!", calls[0].body["text"])
}

func TestSendPromptWithPhotoAndChoices(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler())
	defer srv.Close()
	c := NewClientWithBase(srv.URL, "tok", zerolog.Nop())

	_, err := c.SendPrompt(context.Background(), 601, chat.Prompt{
		Text:     "card",
		PhotoURL: "http://example/p.jpg",
		Sections: []string{"history", "pledges"},
		Choices: []chat.Choice{
			{Label: "✅", Data: "a"},
			{Label: "❌", Data: "b"},
		},
	})
	require.NoError(t, err)

	calls := api.recorded()
	require.Len(t, calls, 3, "photo card plus one message per section")
	assert.Equal(t, "/bottok/sendPhoto", calls[0].path)
	assert.Equal(t, "card", calls[0].body["caption"])
	assert.Equal(t, "http://example/p.jpg", calls[0].body["photo"])

	markup, ok := calls[0].body["reply_markup"].(map[string]interface{})
	require.True(t, ok)
	rows, ok := markup["inline_keyboard"].([]interface{})
	require.True(t, ok)
	assert.Len(t, rows, 2, "one button per row")

	assert.Equal(t, "/bottok/sendMessage", calls[1].path)
	assert.Equal(t, "history", calls[1].body["text"])
	assert.Equal(t, "pledges", calls[2].body["text"])
}

func TestSendPromptPlainText(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler())
	defer srv.Close()
	c := NewClientWithBase(srv.URL, "tok", zerolog.Nop())

	_, err := c.SendPrompt(context.Background(), 777, chat.Prompt{Text: "plain"})
	require.NoError(t, err)

	calls := api.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, "/bottok/sendMessage", calls[0].path)
	assert.Equal(t, "plain", calls[0].body["text"])
	_, hasMarkup := calls[0].body["reply_markup"]
	assert.False(t, hasMarkup)
}

func TestSendTextAPIError(t *testing.T) {
	api := &fakeAPI{fail: true}
	srv := httptest.NewServer(api.handler())
	defer srv.Close()
	c := NewClientWithBase(srv.URL, "tok", zerolog.Nop())

	_, err := c.SendText(context.Background(), 777, "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}
