package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	httpapi "github.com/goods-gate/goods-gate/internal/api/http"
	"github.com/goods-gate/goods-gate/internal/application/negotiation"
	"github.com/goods-gate/goods-gate/internal/config"
	"github.com/goods-gate/goods-gate/internal/infrastructure/memory"
	"github.com/goods-gate/goods-gate/internal/infrastructure/postgres"
	"github.com/goods-gate/goods-gate/internal/infrastructure/telegram"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if len(cfg.PrimaryApprovers) == 0 {
		logger.Warn().Msg("no primary approvers configured, sensitive requests will bounce")
	}
	if len(cfg.SecondaryApprovers) == 0 {
		logger.Warn().Msg("no secondary approvers configured, dispatch requests will bounce")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db error: %v", err)
	}
	defer pool.Close()

	// infrastructure
	directory := postgres.NewDirectory(pool, cfg.ProfileCacheTTL)
	backend := postgres.NewFulfillment(pool)
	sessions := memory.NewSessionStore()
	registry := memory.NewRegistry()
	client := telegram.NewClient(cfg.BotToken, logger)

	// services
	fanout := negotiation.NewFanout(client, logger)
	policy, err := negotiation.NewPolicy(directory, cfg.SensitiveBrandRule, logger)
	if err != nil {
		log.Fatalf("policy error: %v", err)
	}
	router := negotiation.NewRouter(
		sessions,
		registry,
		directory,
		backend,
		client,
		fanout,
		policy,
		cfg.PrimaryApprovers,
		cfg.SecondaryApprovers,
		logger,
	)
	dispatcher := telegram.NewDispatcher(router, client, logger)

	// API server
	apiServer := httpapi.NewServer(dispatcher, cfg.WebhookSecret, logger)

	httpServer := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      apiServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// start server
	go func() {
		logger.Info().Str("addr", cfg.ServerAddr).Msg("webhook server started")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("webhook server failed")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctxShutdown)
}
