// Package app wires configuration, storage, repositories, services and
// the HTTP server into a running process.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/wanderlog/traveldiary-backend/internal/adapter/postgres"
	accountrepo "github.com/wanderlog/traveldiary-backend/internal/adapter/postgres/account"
	diaryrepo "github.com/wanderlog/traveldiary-backend/internal/adapter/postgres/diary"
	"github.com/wanderlog/traveldiary-backend/internal/auth"
	"github.com/wanderlog/traveldiary-backend/internal/config"
	"github.com/wanderlog/traveldiary-backend/internal/media"
	diarysvc "github.com/wanderlog/traveldiary-backend/internal/service/diary"
	"github.com/wanderlog/traveldiary-backend/internal/storage"
	"github.com/wanderlog/traveldiary-backend/internal/transport/middleware"
	"github.com/wanderlog/traveldiary-backend/internal/transport/rest"
)

// rateLimiterCleanup is how often idle per-IP buckets are dropped.
const rateLimiterCleanup = 5 * time.Minute

// Run is the application entry point. It loads configuration, connects
// to PostgreSQL, prepares the media store, builds the diary service
// and serves HTTP until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	store, err := storage.New(cfg.Storage)
	if err != nil {
		return fmt.Errorf("init media store: %w", err)
	}

	transformer := media.NewTransformer(cfg.Media, store.DerivedDir(), logger)

	diaries := diaryrepo.New(pool)
	accounts := accountrepo.New(pool)
	txManager := postgres.NewTxManager(pool)

	svc := diarysvc.NewService(
		logger,
		diaries,
		accounts,
		txManager,
		transformer,
		store,
		func() diarysvc.FileLedger { return storage.NewLedger(store, logger) },
	)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)

	rateLimiter := middleware.NewRateLimiter(rateLimiterCleanup)
	defer rateLimiter.Stop()

	handler := rest.NewRouter(rest.RouterDeps{
		Diaries:     rest.NewDiaryHandler(svc, store, cfg.Storage, logger),
		Admin:       rest.NewAdminHandler(svc, logger),
		Health:      rest.NewHealthHandler(pool, BuildVersion()),
		Auth:        middleware.Auth(jwtManager),
		RateLimiter: rateLimiter,
		UploadsRoot: store.Root(),
		CORS:        cfg.CORS,
		Log:         logger,
	})

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	return nil
}
