package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dbwlsddd/Safety/internal/config"
	"github.com/dbwlsddd/Safety/internal/database"
	"github.com/dbwlsddd/Safety/internal/repository"
	"github.com/dbwlsddd/Safety/internal/service"
	"github.com/dbwlsddd/Safety/internal/vision"
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database pool
	pool, err := database.NewPool(ctx, database.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		return fmt.Errorf("failed to create database pool: %w", err)
	}
	defer pool.Close()

	// Face embedding backend
	embedder, err := vision.NewFaceEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("failed to create face embedder: %w", err)
	}

	enroller := service.NewEnrollmentService(
		repository.NewWorkerRepository(pool),
		embedder,
		cfg.BaseImagePath,
		logger,
	)

	report, err := enroller.Run(ctx)
	if err != nil {
		return fmt.Errorf("enrollment batch failed: %w", err)
	}

	logger.Info("enrollment done",
		slog.Int("succeeded", report.Succeeded),
		slog.Int("total", report.Total),
	)

	return nil
}
