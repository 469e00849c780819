// Package main implements the entry point for the accounts API server,
// which handles user registration and token-based authenticated access.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/treelinelabs/accounts-api/internal/config"
	"github.com/treelinelabs/accounts-api/internal/platform/logger"
	"github.com/treelinelabs/accounts-api/internal/platform/postgres"
	"github.com/treelinelabs/accounts-api/internal/service"
	"github.com/treelinelabs/accounts-api/internal/service/auth"
)

// shutdownTimeout bounds how long in-flight requests may take to drain
// after the process receives a termination signal.
const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logg := logger.Setup(cfg.Server.LogLevel)
	logg.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := postgres.Migrate(ctx, db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	logg.Info("database migrations applied")

	tokenService, err := auth.NewTokenService(
		cfg.Auth.JWTSecret,
		cfg.Auth.Algorithm,
		cfg.Auth.AccessTokenTTL(),
		cfg.Auth.RefreshTokenTTL(),
	)
	if err != nil {
		return fmt.Errorf("failed to create token service: %w", err)
	}

	hasher := auth.NewBcryptHasher()
	uowFactory := postgres.NewUnitOfWorkFactory(db)

	authService := service.NewAuthService(uowFactory, tokenService, hasher, logg)
	userService := service.NewUserService(uowFactory, tokenService, hasher, logg)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           newRouter(authService, userService, logg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logg.Info("shutdown signal received, draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server cleanly: %w", err)
	}

	logg.Info("server stopped")
	return nil
}
