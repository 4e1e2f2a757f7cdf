package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"studyhub_backend/internal/adapters/storage"
	"studyhub_backend/internal/assistant"
	authrepo "studyhub_backend/internal/auth/repository"
	"studyhub_backend/internal/scheduler"
	"studyhub_backend/platform/ai"
	"studyhub_backend/platform/config"
	"studyhub_backend/platform/db"
	"studyhub_backend/platform/logger"
	"studyhub_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.DatabaseError("connect", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	storageSvc, err := storage.NewMinIOService(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		panic("failed to initialize storage service: " + err.Error())
	}

	generator, err := ai.New(ctx, cfg)
	if err != nil {
		log.Error("failed to initialize AI provider", "provider", cfg.GetAIProvider(), "error", err)
		panic("failed to initialize AI provider: " + err.Error())
	}

	// Worker-side summary wiring (no HTTP handlers required).
	assistantModule := assistant.NewModule(pool, generator, storageSvc, cfg.GetMinioBucketDocuments(), validator.New(), log)

	cleanupInterval := getDurationEnv("REFRESH_TOKEN_CLEANUP_INTERVAL", time.Hour)
	retention := getDurationEnv("REFRESH_TOKEN_RETENTION", 7*24*time.Hour)
	tokenCleanup := scheduler.NewRefreshTokenCleanup(authrepo.New(pool), log, cleanupInterval, retention)
	go tokenCleanup.Run(ctx)

	worker, err := scheduler.NewWorker(cfg, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}
	worker.SetSummarizer(assistantModule.Service())

	worker.Run(ctx)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}

	return parsed
}
