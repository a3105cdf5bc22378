package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"timetrack/internal/auth"
	"timetrack/internal/backend"
	"timetrack/internal/config"
	apphttp "timetrack/internal/http"
	"timetrack/internal/store"
)

func main() {
	// Load .env for local development (optional in production).
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	if cfg.AppPasswordHash == "" {
		logger.Warn("APP_PASSWORD_HASH is not set, every login will be rejected (use cmd/hashpass to generate one)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	factory := backend.NewFactory(logger)
	result, err := factory.CreateBackend(ctx, backend.Config{
		Type:         backend.Type(cfg.DataBackend),
		CSVFilePath:  cfg.CSVFilePath,
		SQLiteDBPath: cfg.SQLiteDBPath,
	})
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", "error", err)
			}
		}()
	}

	entries := store.New(result.Store)
	sessions := auth.NewManager(cfg.AppPasswordHash, cfg.SessionTTL)

	srv := apphttp.NewServer(":"+cfg.Port, entries, sessions)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting timetrack server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		// Periodically drop expired sessions.
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := sessions.Sweep(); n > 0 {
					logger.Debug("Expired sessions removed", "count", n)
				}
			case <-gctx.Done():
				return nil
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
