package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goods-gate/goods-gate/internal/infrastructure/telegram"
)

func newTestServer() http.Handler {
	dispatcher := telegram.NewDispatcher(nil, nil, zerolog.Nop())
	return NewServer(dispatcher, "s3cret", zerolog.Nop()).Router()
}

func TestHealthz(t *testing.T) {
	srv := httptest.NewServer(newTestServer())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWebhookRejectsBadSecret(t *testing.T) {
	srv := httptest.NewServer(newTestServer())
	defer srv.Close()

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/telegram/webhook", strings.NewReader(`{"update_id":1}`))
	require.NoError(t, err)
	req.Header.Set("X-Telegram-Bot-Api-Secret-Token", "wrong")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWebhookAcknowledgesUndecodableBody(t *testing.T) {
	srv := httptest.NewServer(newTestServer())
	defer srv.Close()

	// The platform retries any non-200 response, so a malformed body is
	// dropped with a 200 instead of being bounced back forever.
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/telegram/webhook", strings.NewReader(`{nope`))
	require.NoError(t, err)
	req.Header.Set("X-Telegram-Bot-Api-Secret-Token", "s3cret")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWebhookAcknowledgesUpdate(t *testing.T) {
	srv := httptest.NewServer(newTestServer())
	defer srv.Close()

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/telegram/webhook", strings.NewReader(`{"update_id":1}`))
	require.NoError(t, err)
	req.Header.Set("X-Telegram-Bot-Api-Secret-Token", "s3cret")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
