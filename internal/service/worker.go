package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dbwlsddd/Safety/internal/domain"
	"github.com/dbwlsddd/Safety/internal/provider"
)

// WorkerStore is the repository surface worker management needs.
type WorkerStore interface {
	Create(ctx context.Context, worker *domain.Worker) error
	GetByID(ctx context.Context, workerID uuid.UUID) (*domain.Worker, error)
	List(ctx context.Context) ([]domain.Worker, error)
	Update(ctx context.Context, worker *domain.Worker) error
	UpdateVector(ctx context.Context, workerID uuid.UUID, embedding []float32) error
	Delete(ctx context.Context, workerID uuid.UUID) error
}

// WorkerService manages worker registration and re-enrollment. Vectors are
// written here and by the batch job only; live recognition never writes.
type WorkerService struct {
	workers  WorkerStore
	embedder provider.FaceEmbedder
	logger   *slog.Logger
}

func NewWorkerService(workers WorkerStore, embedder provider.FaceEmbedder, logger *slog.Logger) *WorkerService {
	return &WorkerService{
		workers:  workers,
		embedder: embedder,
		logger:   logger,
	}
}

// Register creates a worker. When a photo is supplied the embedding is
// extracted best-effort (no detection enforcement); failure to embed does
// not fail registration. The batch job retries later as long as the
// worker keeps an image path.
func (s *WorkerService) Register(ctx context.Context, worker *domain.Worker, photo []byte) error {
	if photo != nil {
		embedding, err := s.embedder.Represent(ctx, photo, false)
		if err != nil {
			s.logger.Warn("registration embedding failed; worker left unenrolled",
				slog.String("name", worker.Name),
				slog.Any("error", err),
			)
		} else {
			worker.FaceVector = embedding
		}
	}

	if err := s.workers.Create(ctx, worker); err != nil {
		return err
	}

	return nil
}

// Get loads one worker.
func (s *WorkerService) Get(ctx context.Context, workerID uuid.UUID) (*domain.Worker, error) {
	return s.workers.GetByID(ctx, workerID)
}

// List returns all workers.
func (s *WorkerService) List(ctx context.Context) ([]domain.Worker, error) {
	return s.workers.List(ctx)
}

// Update rewrites identity fields and, when a new photo is supplied,
// re-enrolls the worker's vector.
func (s *WorkerService) Update(ctx context.Context, worker *domain.Worker, photo []byte) error {
	if err := s.workers.Update(ctx, worker); err != nil {
		return err
	}

	if photo == nil {
		return nil
	}

	embedding, err := s.embedder.Represent(ctx, photo, false)
	if err != nil {
		return fmt.Errorf("re-enroll worker %s: %w", worker.WorkerID, err)
	}

	if err := s.workers.UpdateVector(ctx, worker.WorkerID, embedding); err != nil {
		return err
	}

	return nil
}

// Delete removes a worker.
func (s *WorkerService) Delete(ctx context.Context, workerID uuid.UUID) error {
	if _, err := s.workers.GetByID(ctx, workerID); err != nil {
		if errors.Is(err, domain.ErrWorkerNotFound) {
			return err
		}
		return fmt.Errorf("load worker %s: %w", workerID, err)
	}

	return s.workers.Delete(ctx, workerID)
}
