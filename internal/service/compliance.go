package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/dbwlsddd/Safety/internal/domain"
	"github.com/dbwlsddd/Safety/internal/provider"
)

// ComplianceService runs object detection, canonicalizes labels and checks
// the detected set against the required-equipment set.
//
// When constructed with a nil detector (the backend failed its startup
// probe) the service is degraded: every check returns is_safe=false with no
// detections and the full required set missing. It never reports "safe"
// without having run the model.
type ComplianceService struct {
	detector        provider.PPEDetector
	confidenceFloor float64
	logger          *slog.Logger
}

func NewComplianceService(detector provider.PPEDetector, confidenceFloor float64, logger *slog.Logger) *ComplianceService {
	return &ComplianceService{
		detector:        detector,
		confidenceFloor: confidenceFloor,
		logger:          logger,
	}
}

// Available reports whether the detection backend loaded at startup.
func (s *ComplianceService) Available() bool {
	return s.detector != nil
}

// Check produces the compliance verdict for one frame.
//
// An empty required set is a configuration gap: it is logged as a warning
// and the verdict is trivially safe: all elements of the empty set are
// present. Detection errors fail closed the same way backend absence does.
func (s *ComplianceService) Check(ctx context.Context, image []byte, required map[string]struct{}) (*domain.ComplianceVerdict, error) {
	if s.detector == nil {
		return s.failClosed(required), nil
	}

	if len(required) == 0 {
		s.logger.Warn("compliance check with empty required-equipment set; verdict is trivially safe")
	}

	raw, err := s.detector.Detect(ctx, image, s.confidenceFloor)
	if err != nil {
		s.logger.Error("ppe detection failed", slog.Any("error", err))
		return s.failClosed(required), fmt.Errorf("ppe detection: %w", err)
	}

	detections := make([]domain.Detection, 0, len(raw))
	detected := make(map[string]struct{}, len(raw))
	for _, d := range raw {
		canonical := CanonicalLabel(d.Label)
		detections = append(detections, domain.Detection{
			Box:        d.Box,
			Label:      canonical,
			RawLabel:   d.Label,
			ClassID:    d.ClassID,
			Confidence: d.Confidence,
		})
		detected[canonical] = struct{}{}
	}

	missing := missingLabels(required, detected)

	return &domain.ComplianceVerdict{
		IsSafe:     len(missing) == 0,
		Detections: detections,
		Missing:    missing,
	}, nil
}

// Detections runs detection and canonicalizes labels without a verdict.
// It backs the one-shot /detect_ppe surface. Degraded mode reports the backend as
// unavailable instead of fabricating an empty result.
func (s *ComplianceService) Detections(ctx context.Context, image []byte) ([]domain.Detection, error) {
	if s.detector == nil {
		return nil, domain.ErrModelUnavailable
	}

	raw, err := s.detector.Detect(ctx, image, s.confidenceFloor)
	if err != nil {
		return nil, domain.ErrModelUnavailable.WithError(err)
	}

	detections := make([]domain.Detection, 0, len(raw))
	for _, d := range raw {
		detections = append(detections, domain.Detection{
			Box:        d.Box,
			Label:      CanonicalLabel(d.Label),
			RawLabel:   d.Label,
			ClassID:    d.ClassID,
			Confidence: d.Confidence,
		})
	}
	return detections, nil
}

// failClosed is the degraded verdict: unsafe, nothing detected, everything
// required reported missing.
func (s *ComplianceService) failClosed(required map[string]struct{}) *domain.ComplianceVerdict {
	return &domain.ComplianceVerdict{
		IsSafe:     false,
		Detections: []domain.Detection{},
		Missing:    missingLabels(required, nil),
	}
}

// missingLabels computes required - detected, sorted for determinism.
func missingLabels(required, detected map[string]struct{}) []string {
	missing := make([]string, 0, len(required))
	for label := range required {
		if _, ok := detected[label]; !ok {
			missing = append(missing, label)
		}
	}
	sort.Strings(missing)
	return missing
}
