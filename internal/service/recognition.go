package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dbwlsddd/Safety/internal/domain"
	"github.com/dbwlsddd/Safety/internal/provider"
)

// WorkerResolver answers nearest-neighbor queries against the worker
// vector store.
type WorkerResolver interface {
	Nearest(ctx context.Context, embedding []float32) (*domain.IdentificationResult, error)
}

// RecognitionService turns a frame into an identification decision:
// embedding extraction, nearest-vector lookup, threshold acceptance.
type RecognitionService struct {
	embedder  provider.FaceEmbedder
	resolver  WorkerResolver
	threshold float64
	logger    *slog.Logger
}

func NewRecognitionService(embedder provider.FaceEmbedder, resolver WorkerResolver, threshold float64, logger *slog.Logger) *RecognitionService {
	return &RecognitionService{
		embedder:  embedder,
		resolver:  resolver,
		threshold: threshold,
		logger:    logger,
	}
}

// Identify runs the full identification pipeline on decoded image bytes.
// Outcomes:
//   - match accepted: the result, nil error
//   - no face in frame: domain.ErrNoFaceDetected (expected, skip the frame)
//   - face found, nearest distance >= threshold: domain.ErrNoMatch
//   - store failure: domain.ErrResolver (recoverable; sessions keep running)
//
// Acceptance is strict: a distance exactly equal to the threshold rejects.
func (s *RecognitionService) Identify(ctx context.Context, image []byte) (*domain.IdentificationResult, error) {
	embedding, err := s.embedder.Represent(ctx, image, true)
	if err != nil {
		if errors.Is(err, domain.ErrNoFaceDetected) {
			return nil, domain.ErrNoFaceDetected
		}
		return nil, domain.ErrResolver.WithError(err)
	}

	result, err := s.resolver.Nearest(ctx, embedding)
	if err != nil {
		return nil, domain.ErrResolver.WithError(err)
	}

	if result == nil || result.Distance >= s.threshold {
		if result != nil {
			s.logger.Debug("no worker within threshold",
				slog.Float64("distance", result.Distance),
				slog.Float64("threshold", s.threshold),
			)
		}
		return nil, domain.ErrNoMatch
	}

	return result, nil
}

// Vectorize extracts a best-effort embedding without detection enforcement.
// Used by the enrollment-time /vectorize endpoint.
func (s *RecognitionService) Vectorize(ctx context.Context, image []byte) ([]float32, error) {
	embedding, err := s.embedder.Represent(ctx, image, false)
	if err != nil {
		return nil, err
	}
	return embedding, nil
}
