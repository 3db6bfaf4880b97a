package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/dbwlsddd/Safety/internal/codec"
	"github.com/dbwlsddd/Safety/internal/domain"
	"github.com/dbwlsddd/Safety/internal/provider"
)

// WorkerEnroller is the repository surface the enrollment job needs.
type WorkerEnroller interface {
	ListUnenrolled(ctx context.Context) ([]domain.Worker, error)
	UpdateVector(ctx context.Context, workerID uuid.UUID, embedding []float32) error
}

// EnrollmentReport summarizes one batch run.
type EnrollmentReport struct {
	Succeeded int
	Total     int
}

// EnrollmentService computes and persists embeddings for workers whose
// photos have not been vectorized yet. Each row commits independently, so
// partial progress survives a crash mid-batch.
type EnrollmentService struct {
	workers  WorkerEnroller
	embedder provider.FaceEmbedder
	basePath string
	logger   *slog.Logger
}

func NewEnrollmentService(workers WorkerEnroller, embedder provider.FaceEmbedder, basePath string, logger *slog.Logger) *EnrollmentService {
	return &EnrollmentService{
		workers:  workers,
		embedder: embedder,
		basePath: basePath,
		logger:   logger,
	}
}

// Run processes every unenrolled worker. Per-row failures (missing file,
// undecodable image, model failure) are logged and skipped; a single bad
// row never aborts the batch. Embeddings are extracted without detection
// enforcement so small or blurry enrollment photos still vectorize.
func (s *EnrollmentService) Run(ctx context.Context) (EnrollmentReport, error) {
	rows, err := s.workers.ListUnenrolled(ctx)
	if err != nil {
		return EnrollmentReport{}, fmt.Errorf("list unenrolled workers: %w", err)
	}

	report := EnrollmentReport{Total: len(rows)}
	if len(rows) == 0 {
		s.logger.Info("all workers already enrolled")
		return report, nil
	}

	s.logger.Info("starting enrollment batch", slog.Int("workers", len(rows)))

	for _, worker := range rows {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if err := s.enrollOne(ctx, worker); err != nil {
			s.logger.Warn("enrollment skipped",
				slog.String("worker_id", worker.WorkerID.String()),
				slog.String("name", worker.Name),
				slog.Any("error", err),
			)
			continue
		}

		s.logger.Info("worker enrolled",
			slog.String("worker_id", worker.WorkerID.String()),
			slog.String("name", worker.Name),
		)
		report.Succeeded++
	}

	s.logger.Info("enrollment batch finished",
		slog.Int("succeeded", report.Succeeded),
		slog.Int("total", report.Total),
	)

	return report, nil
}

func (s *EnrollmentService) enrollOne(ctx context.Context, worker domain.Worker) error {
	path := s.resolveImagePath(worker.ImagePath)

	imageBytes, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read image %s: %w", path, err)
	}

	if err := codec.ValidateImage(imageBytes); err != nil {
		return fmt.Errorf("decode image %s: %w", path, err)
	}

	embedding, err := s.embedder.Represent(ctx, imageBytes, false)
	if err != nil {
		return fmt.Errorf("extract embedding: %w", err)
	}

	if err := s.workers.UpdateVector(ctx, worker.WorkerID, embedding); err != nil {
		return fmt.Errorf("persist vector: %w", err)
	}

	return nil
}

// resolveImagePath joins the stored path onto the base directory. Stored
// paths that arrive rooted have their leading separators stripped so they
// stay inside the base.
func (s *EnrollmentService) resolveImagePath(stored string) string {
	stored = strings.TrimLeft(stored, `/\`)
	return filepath.Join(s.basePath, stored)
}
