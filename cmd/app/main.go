// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-payment-relay/internal/config"
	"telegram-payment-relay/internal/infra/adapters/market"
	tele "telegram-payment-relay/internal/infra/adapters/telegram"
	pg "telegram-payment-relay/internal/infra/db/postgres"
	"telegram-payment-relay/internal/infra/logging"
	"telegram-payment-relay/internal/infra/metrics"
	red "telegram-payment-relay/internal/infra/redis"
	"telegram-payment-relay/internal/infra/web"
	"telegram-payment-relay/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	// ---- Postgres ----
	if err := pg.RunMigrations(cfg.Database.URL, cfg.Database.Migrations); err != nil {
		logger.Fatal().Err(err).Msg("migrations failed")
	}
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connection failed")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connection failed")
	}
	defer redisClient.Close()
	guard := red.NewEventGuard(redisClient)

	// ---- Repositories & adapters ----
	payRepo := pg.NewPaymentRepo(pool)

	gateway, err := market.NewGateway(&cfg.Market)
	if err != nil {
		logger.Fatal().Err(err).Msg("market gateway setup failed")
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.Bot.Token)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram auth failed")
	}
	editor := tele.NewMessageEditor(botAPI)

	// ---- Use case ----
	paymentUC := usecase.NewPaymentUseCase(payRepo, gateway, editor, guard, cfg.Bot.AdminIDs, logger)

	// ---- Telegram polling ----
	botAdapter, err := tele.NewRealBotAdapter(botAPI, &cfg.Bot, paymentUC, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram adapter setup failed")
	}
	go func() {
		if err := botAdapter.StartPolling(ctx); err != nil && err != context.Canceled {
			logger.Error().Err(err).Msg("telegram polling stopped")
		}
	}()

	// ---- Webhook server ----
	srv := web.NewServer(paymentUC, cfg.Market.MerchantToken, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Webhook.Port),
		Handler: srv.Router(),
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("webhook server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("webhook server error")
		}
	}()

	logger.Info().Str("bot", botAPI.Self.UserName).Msg("bot started")

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	cancel() // stops polling workers
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("webhook server shutdown failed")
	}
	logger.Info().Msg("bot stopped")
}
