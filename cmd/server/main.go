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

	"github.com/nvoronin/passport/internal/auth"
	"github.com/nvoronin/passport/internal/config"
	"github.com/nvoronin/passport/internal/server"
	"github.com/nvoronin/passport/internal/server/storage"
	"github.com/nvoronin/passport/internal/server/storage/boltdb"
	"github.com/nvoronin/passport/internal/server/storage/sqlite"
	"github.com/nvoronin/passport/internal/token"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "passport: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.ShowVersion {
		printVersion()
		return nil
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Ключ подписи: из конфигурации или случайный на процесс.
	// Случайный ключ означает, что все токены умирают вместе с процессом.
	key := []byte(cfg.TokenSecret)
	if len(key) == 0 {
		key, err = token.NewRandomKey()
		if err != nil {
			return err
		}
		logger.Warn("token secret is not configured, generated a per-process key; " +
			"all issued tokens become invalid on restart")
	}

	tokenService, err := token.NewService(key, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		return fmt.Errorf("failed to create token service: %w", err)
	}

	users, closeStorage, err := openStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := closeStorage(); err != nil {
			logger.Error("failed to close storage", slog.Any("error", err))
		}
	}()

	authService := auth.NewService(users, tokenService)

	handler := server.NewHandler(logger, authService, server.Options{
		Version:         Version,
		RateLimit:       cfg.RateLimit,
		RateLimitWindow: cfg.RateLimitWindow,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errC := make(chan error, 1)
	go func() {
		logger.Info("passport server starting",
			slog.String("addr", cfg.Addr),
			slog.String("storage", cfg.StorageBackend),
			slog.String("version", Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
	}()

	select {
	case err := <-errC:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	return nil
}

// openStorage открывает выбранный в конфигурации backend
func openStorage(ctx context.Context, cfg *config.Config) (storage.UserStorage, func() error, error) {
	switch cfg.StorageBackend {
	case config.BackendSQLite:
		s, err := sqlite.New(ctx, cfg.DatabasePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.BackendBoltDB:
		s, err := boltdb.New(ctx, cfg.DatabasePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func printVersion() {
	fmt.Printf("Passport Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
