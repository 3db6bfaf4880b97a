package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dbwlsddd/Safety/internal/api"
	"github.com/dbwlsddd/Safety/internal/config"
	"github.com/dbwlsddd/Safety/internal/database"
	"github.com/dbwlsddd/Safety/internal/service"
	"github.com/dbwlsddd/Safety/internal/vision"
	"github.com/dbwlsddd/Safety/internal/ws"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	logger.Info("starting Safety AI Server",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database pool
	poolConfig := database.DefaultPoolConfig(cfg.DatabaseURL)
	pool, err := database.NewPool(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create database pool: %w", err)
	}
	defer pool.Close()

	// Face embedding backend. Recognition cannot run without it, so a
	// misconfigured backend is fatal.
	embedder, err := vision.NewFaceEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("failed to create face embedder: %w", err)
	}

	// PPE detection backend. Unlike the embedder this one degrades: when
	// the startup probe fails the server still runs, reporting every
	// frame as unsafe until the detector comes back and the process is
	// restarted.
	detector, pinger, err := vision.NewPPEDetector(cfg)
	if err != nil {
		return fmt.Errorf("failed to create ppe detector: %w", err)
	}
	if pinger != nil {
		probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := pinger.Ping(probeCtx); err != nil {
			logger.Warn("ppe detector unavailable, compliance checks will fail closed",
				slog.Any("error", err),
			)
			detector = nil
		}
		cancel()
	}

	compliance := service.NewComplianceService(detector, cfg.ConfidenceFloor, logger)

	// Setup router
	router := api.NewRouter(logger, &api.Dependencies{
		DB:              pool,
		Embedder:        embedder,
		Compliance:      compliance,
		Threshold:       cfg.RecognitionThreshold,
		MissPolicy:      ws.ParseMissPolicy(cfg.MissPolicy),
		DefaultRequired: cfg.RequiredEquipmentList(),
	})
	router.Setup()

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down server...")
	if err := router.Shutdown(); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}

	<-shutdownCtx.Done()
	logger.Info("server stopped")

	return nil
}
