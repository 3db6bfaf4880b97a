// Package vision selects the model backends at startup. The choice of
// embedding model and detector is a deployment-time constant: recognition
// must run against the same backend that produced the stored vectors.
package vision

import (
	"context"
	"fmt"

	"github.com/dbwlsddd/Safety/internal/config"
	"github.com/dbwlsddd/Safety/internal/provider"
	"github.com/dbwlsddd/Safety/internal/provider/deepface"
	"github.com/dbwlsddd/Safety/internal/provider/mock"
	"github.com/dbwlsddd/Safety/internal/provider/yolo"
)

// EmbedderType defines supported face embedding backends
type EmbedderType string

const (
	// EmbedderTypeDeepFace is the DeepFace HTTP server backend
	EmbedderTypeDeepFace EmbedderType = "deepface"
	// EmbedderTypeMock is the deterministic in-process backend (dev/test)
	EmbedderTypeMock EmbedderType = "mock"
)

// DetectorType defines supported PPE detection backends
type DetectorType string

const (
	// DetectorTypeYOLO is the YOLO HTTP server backend
	DetectorTypeYOLO DetectorType = "yolo"
	// DetectorTypeMock is the fixed-output in-process backend (dev/test)
	DetectorTypeMock DetectorType = "mock"
)

// NewFaceEmbedder creates the configured face embedding backend.
func NewFaceEmbedder(cfg *config.Config) (provider.FaceEmbedder, error) {
	switch EmbedderType(cfg.FaceProvider) {
	case EmbedderTypeDeepFace, "":
		dfConfig := deepface.DefaultConfig()
		if cfg.DeepFaceURL != "" {
			dfConfig.BaseURL = cfg.DeepFaceURL
		}
		if cfg.FaceModel != "" {
			dfConfig.Model = cfg.FaceModel
		}
		if cfg.FaceDetector != "" {
			dfConfig.Detector = cfg.FaceDetector
		}
		return deepface.NewProvider(dfConfig), nil

	case EmbedderTypeMock:
		return mock.NewEmbedder(), nil

	default:
		return nil, fmt.Errorf("unknown face provider: %s (supported: %s, %s)",
			cfg.FaceProvider, EmbedderTypeDeepFace, EmbedderTypeMock)
	}
}

// NewPPEDetector creates the configured PPE detection backend. The returned
// Pinger (when non-nil) lets the caller probe the backend at startup and
// degrade the compliance checker to fail-closed if the probe fails.
func NewPPEDetector(cfg *config.Config) (provider.PPEDetector, Pinger, error) {
	switch DetectorType(cfg.PPEProvider) {
	case DetectorTypeYOLO, "":
		yoloConfig := yolo.DefaultConfig()
		if cfg.YOLOURL != "" {
			yoloConfig.BaseURL = cfg.YOLOURL
		}
		p := yolo.NewProvider(yoloConfig)
		return p, p, nil

	case DetectorTypeMock:
		return mock.NewDetector(), nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown ppe provider: %s (supported: %s, %s)",
			cfg.PPEProvider, DetectorTypeYOLO, DetectorTypeMock)
	}
}

// Pinger is implemented by backends that support a startup health probe.
type Pinger interface {
	Ping(ctx context.Context) error
}
