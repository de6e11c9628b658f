// cmd/bridge-server — agent stream bridge entrypoint.
package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/bio-agent/go-bridge-v2/internal/apiserver"
	"github.com/bio-agent/go-bridge-v2/internal/config"
	"github.com/bio-agent/go-bridge-v2/internal/database"
	"github.com/bio-agent/go-bridge-v2/internal/session"
	"github.com/bio-agent/go-bridge-v2/internal/store"
	"github.com/bio-agent/go-bridge-v2/internal/stream"
	"github.com/bio-agent/go-bridge-v2/pkg/logger"
	"github.com/bio-agent/go-bridge-v2/pkg/util"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()
	logger.Init(cfg.LogEnv, cfg.LogLevel)
	if cfg.LogDir != "" {
		if err := logger.InitWithFile(cfg.LogDir); err != nil {
			logger.Fatal("log file init failed", logger.Any(logger.FieldError, err))
		}
		defer logger.ShutdownFileHandler()
	}

	var (
		logs   store.LogStore
		events store.EventStore
	)
	if cfg.PostgresConnStr != "" {
		pool, err := database.NewPool(ctx, cfg)
		if err != nil {
			logger.Fatal("database init failed", logger.Any(logger.FieldError, err))
		}
		defer pool.Close()
		if err := database.Migrate(ctx, pool, "./migrations"); err != nil {
			logger.Fatal("migration failed", logger.Any(logger.FieldError, err))
		}
		logs = store.NewSessionLogStore(pool)
		events = store.NewPGEventStore(pool)
	} else {
		logger.Warn("no postgres connection string, using in-memory stores")
		logs = store.NewMemoryLogStore()
		events = store.NewMemoryEventStore()
	}

	var enricher stream.Enricher
	if cfg.EnrichEnabled && cfg.OpenAIAPIKey != "" {
		enricher = stream.NewOpenAIEnricher(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.EnrichModel)
		logger.Info("enrichment enabled", logger.FieldModel, cfg.EnrichModel)
	}

	cache := stream.NewLRUCache(cfg.CacheCapacity)
	sessions := session.NewManager(cache, cfg.SummaryMaxChars, enricher).
		WithEnrichTimeout(time.Duration(cfg.EnrichTimeout) * time.Second)

	srv := apiserver.NewServer(apiserver.Deps{
		Sessions:     sessions,
		Logs:         logs,
		Events:       events,
		Cache:        cache,
		SummaryLimit: cfg.SummaryMaxChars,
	})

	util.SafeGo(func() {
		if err := srv.Start(cfg.ListenAddr); err != nil {
			logger.Fatal("server failed", logger.Any(logger.FieldError, err))
		}
	})

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown incomplete", logger.FieldError, err)
	}
}
