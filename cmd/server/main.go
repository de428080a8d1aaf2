package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/insighthq/insightd/internal/api"
	"github.com/insighthq/insightd/internal/cache"
	"github.com/insighthq/insightd/internal/config"
	"github.com/insighthq/insightd/internal/insight"
	"github.com/insighthq/insightd/internal/run"
	"github.com/insighthq/insightd/internal/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := runServer(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func runServer() error {
	// Missing .env is fine; production sets real environment variables.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	if cfg.Server.Env == "development" {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()

	if err := store.RunMigrations(cfg.Database.URL, "migrations"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("migrations applied")

	redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("creating redis client: %w", err)
	}
	defer redisCache.Close()
	if err := redisCache.Ping(ctx); err != nil {
		return fmt.Errorf("pinging redis: %w", err)
	}

	st := store.NewPostgresStore(pool)
	engine := insight.NewEngine(insight.WithAnomalyThreshold(cfg.Engine.AnomalyThreshold))
	runSvc := run.NewService(engine, st, redisCache, cfg.Engine.ResultCacheTTL)

	router := api.NewRouter(api.Deps{
		Store:           st,
		Cache:           redisCache,
		RunService:      runSvc,
		RateLimitPerMin: cfg.Server.RateLimitPerMin,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "env", cfg.Server.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
