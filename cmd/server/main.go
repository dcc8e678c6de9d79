package main

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/eimlabs/bidpilot/internal/api"
	"github.com/eimlabs/bidpilot/internal/auth"
	"github.com/eimlabs/bidpilot/internal/config"
	"github.com/eimlabs/bidpilot/internal/db"
	"github.com/eimlabs/bidpilot/internal/webhook"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool, logger); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	store := db.NewStore(pool)

	secret, err := auth.ResolveSecret(cfg.JWTSecret, logger)
	if err != nil {
		logger.Fatal("failed to resolve JWT secret", zap.Error(err))
	}
	authService := auth.NewService(store, secret, logger)

	webhooks := webhook.NewClient(cfg.ConsultantWebhookURL, cfg.CreateProposalWebhookURL, cfg.WebhookTimeout(), logger)

	sweeper := cron.New()
	_, err = sweeper.AddFunc(cfg.SweepSchedule, func() {
		n, err := store.MarkOverdueProposals(context.Background(), time.Now())
		if err != nil {
			logger.Error("overdue sweep failed", zap.Error(err))
			return
		}
		if n > 0 {
			logger.Info("marked proposals overdue", zap.Int64("count", n))
		}
	})
	if err != nil {
		logger.Fatal("invalid sweep schedule", zap.String("schedule", cfg.SweepSchedule), zap.Error(err))
	}
	sweeper.Start()
	defer sweeper.Stop()

	srv := api.NewServer(store, authService, webhooks, cfg.CORSOrigins, logger)
	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := srv.Start(cfg.Port); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
