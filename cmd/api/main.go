package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ketball/backend/internal/app"
	"github.com/ketball/backend/internal/auth"
	"github.com/ketball/backend/internal/infra"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := infra.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	pool, err := infra.NewPostgresPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to postgres")

	if err := infra.RunMigrations(cfg.DSN(), logger); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	jwtExpiry, err := time.ParseDuration(cfg.JWTExpiry)
	if err != nil {
		return fmt.Errorf("parse JWT expiry: %w", err)
	}
	loginWindow, err := time.ParseDuration(cfg.LoginWindow)
	if err != nil {
		return fmt.Errorf("parse login window: %w", err)
	}
	sweepGrace, err := time.ParseDuration(cfg.SweepGrace)
	if err != nil {
		return fmt.Errorf("parse sweep grace: %w", err)
	}
	waitingTTL, err := time.ParseDuration(cfg.WaitingGameTTL)
	if err != nil {
		return fmt.Errorf("parse waiting game TTL: %w", err)
	}

	jwtMgr := auth.NewJWTManager(cfg.JWTSecret, jwtExpiry)
	publisher := infra.NewEventPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaEnabled, logger)
	defer publisher.Close()

	application := app.New(app.RouterDeps{
		Pool:          pool,
		JWTMgr:        jwtMgr,
		Publisher:     publisher,
		Logger:        logger,
		LoginAttempts: cfg.LoginAttempts,
		LoginWindow:   loginWindow,
		SweepGrace:    sweepGrace,
		WaitingTTL:    waitingTTL,
	})

	if err := application.Sweeper.Start(cfg.SweepSpec); err != nil {
		return fmt.Errorf("start sweeper: %w", err)
	}
	defer application.Sweeper.Stop()

	addr := fmt.Sprintf(":%d", cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      application.Router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("server stopped gracefully")
	return nil
}
