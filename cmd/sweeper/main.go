// Command sweeper reconciles the media tree against the database: it
// removes derived images, videos and staging files no diary row
// references, skipping anything younger than the grace period so
// in-flight submissions are never touched. Rows of logically deleted
// diaries still count as references. It is intended to be invoked by
// an external cron job.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/wanderlog/traveldiary-backend/internal/adapter/postgres"
	"github.com/wanderlog/traveldiary-backend/internal/adapter/postgres/diary"
	"github.com/wanderlog/traveldiary-backend/internal/app"
	"github.com/wanderlog/traveldiary-backend/internal/config"
	"github.com/wanderlog/traveldiary-backend/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	store, err := storage.New(cfg.Storage)
	if err != nil {
		logger.Error("init media store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	referenced, err := diary.New(pool).ListReferencedMedia(ctx)
	if err != nil {
		logger.Error("list referenced media", slog.String("error", err.Error()))
		os.Exit(1)
	}

	res, err := store.Sweep(ctx, logger, referenced, cfg.Storage.SweepGrace)
	if err != nil {
		logger.Error("sweep failed",
			slog.String("error", err.Error()),
			slog.Int("removed", res.Removed),
		)
		os.Exit(1)
	}

	logger.Info("sweep completed",
		slog.Int("scanned", res.Scanned),
		slog.Int("removed", res.Removed),
		slog.Duration("grace", cfg.Storage.SweepGrace),
	)
}
