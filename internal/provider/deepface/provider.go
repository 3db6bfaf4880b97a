package deepface

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/dbwlsddd/Safety/internal/domain"
)

// Provider implements provider.FaceEmbedder against a DeepFace HTTP server.
type Provider struct {
	client *Client
}

// NewProvider creates a new DeepFace provider
func NewProvider(config Config) *Provider {
	return &Provider{
		client: NewClient(config),
	}
}

// Represent extracts a face embedding from the image. When enforceDetection
// is true and the server finds no face, domain.ErrNoFaceDetected is
// returned; callers treat it as an expected per-frame outcome.
func (p *Provider) Represent(ctx context.Context, image []byte, enforceDetection bool) ([]float32, error) {
	imageBase64 := base64.StdEncoding.EncodeToString(image)

	resp, err := p.client.Represent(ctx, imageBase64, enforceDetection)
	if err != nil {
		if isNoFaceError(err) {
			return nil, domain.ErrNoFaceDetected.WithError(err)
		}
		return nil, fmt.Errorf("represent: %w", err)
	}

	if len(resp.Results) == 0 {
		if enforceDetection {
			return nil, domain.ErrNoFaceDetected.WithError(ErrNoFaceInResponse)
		}
		return nil, fmt.Errorf("represent: %w", ErrNoFaceInResponse)
	}

	// Multiple faces: the first (most prominent) result is used, matching
	// the behavior of the enrollment-time pipeline.
	return resp.Results[0].Embedding, nil
}

// isNoFaceError recognizes the DeepFace "Face could not be detected" 4xx
// response, which is the detector's way of reporting an empty frame.
func isNoFaceError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "face could not be detected") ||
		strings.Contains(msg, "no face detected")
}
