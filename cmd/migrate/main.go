// cmd/migrate — applies pending SQL migrations and exits.
package main

import (
	"context"
	"os"

	"github.com/bio-agent/go-bridge-v2/internal/config"
	"github.com/bio-agent/go-bridge-v2/internal/database"
	"github.com/bio-agent/go-bridge-v2/pkg/logger"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogEnv, cfg.LogLevel)

	if cfg.PostgresConnStr == "" {
		logger.Error("POSTGRES_CONNECTION_STRING not set")
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("database connect failed", logger.Any(logger.FieldError, err))
	}
	defer pool.Close()

	dir := "./migrations"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}
	if err := database.Migrate(ctx, pool, dir); err != nil {
		logger.Fatal("migration failed", logger.Any(logger.FieldError, err))
	}
	logger.Info("migrations applied", logger.FieldPath, dir)
}
