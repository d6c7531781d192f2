package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/goods-gate/goods-gate/internal/infrastructure/telegram"
)

// Server exposes the webhook endpoint the chat platform delivers updates to.
type Server struct {
	dispatcher    *telegram.Dispatcher
	webhookSecret string
	logger        zerolog.Logger
}

func NewServer(dispatcher *telegram.Dispatcher, webhookSecret string, logger zerolog.Logger) *Server {
	return &Server{
		dispatcher:    dispatcher,
		webhookSecret: webhookSecret,
		logger:        logger.With().Str("service", "http").Logger(),
	}
}

// Router builds the HTTP router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.healthz)
	r.Post("/telegram/webhook", s.webhook)

	return r
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{"status": "ok"})
}

// webhook accepts a single update per request. The platform retries on
// non-200, so everything past the secret check is acknowledged with 200:
// a poison update must not wedge the queue.
func (s *Server) webhook(w http.ResponseWriter, r *http.Request) {
	if s.webhookSecret != "" && r.Header.Get("X-Telegram-Bot-Api-Secret-Token") != s.webhookSecret {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "bad secret token")
		return
	}

	var upd telegram.Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		s.logger.Warn().Err(err).Msg("dropping undecodable update")
		respondJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
		return
	}

	s.dispatcher.Dispatch(r.Context(), upd)
	respondJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, map[string]interface{}{
		"error":   code,
		"message": message,
	})
}
