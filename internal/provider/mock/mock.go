// Package mock provides deterministic in-process model backends for tests
// and development runs without the Python inference servers.
package mock

import (
	"context"
	"crypto/sha256"
	"math"

	"github.com/dbwlsddd/Safety/internal/domain"
	"github.com/dbwlsddd/Safety/internal/provider"
)

const embeddingDimension = 512

// Embedder implements provider.FaceEmbedder with a hash-derived embedding.
type Embedder struct{}

// NewEmbedder creates a mock embedder instance
func NewEmbedder() *Embedder {
	return &Embedder{}
}

// Represent generates a deterministic unit-norm embedding from the image
// hash. Images under 1KB are treated as frames without a detectable face
// when enforcement is on.
func (e *Embedder) Represent(ctx context.Context, image []byte, enforceDetection bool) ([]float32, error) {
	if len(image) == 0 {
		return nil, domain.ErrInvalidImage
	}
	if enforceDetection && len(image) < 1000 {
		return nil, domain.ErrNoFaceDetected
	}

	return generateEmbedding(image), nil
}

// Detector implements provider.PPEDetector with a fixed detection set.
type Detector struct {
	// Detections returned by every call; defaults to a fully equipped
	// worker when empty.
	Detections []provider.RawDetection
}

// NewDetector creates a mock detector instance
func NewDetector() *Detector {
	return &Detector{
		Detections: []provider.RawDetection{
			{Box: [4]float64{120, 40, 280, 200}, Label: "hardhat", ClassID: 0, Confidence: 0.91},
			{Box: [4]float64{100, 210, 320, 480}, Label: "safety vest", ClassID: 4, Confidence: 0.88},
		},
	}
}

// Detect returns the configured detections filtered by confidenceFloor.
func (d *Detector) Detect(ctx context.Context, image []byte, confidenceFloor float64) ([]provider.RawDetection, error) {
	if len(image) == 0 {
		return nil, domain.ErrInvalidImage
	}

	out := make([]provider.RawDetection, 0, len(d.Detections))
	for _, det := range d.Detections {
		if det.Confidence >= confidenceFloor {
			out = append(out, det)
		}
	}
	return out, nil
}

// generateEmbedding derives a deterministic unit-norm vector from the image
// hash so equal images always land at distance zero from each other.
func generateEmbedding(image []byte) []float32 {
	hash := sha256.Sum256(image)
	embedding := make([]float32, embeddingDimension)
	hashLen := len(hash)

	for i := 0; i < embeddingDimension; i++ {
		idx := i % hashLen
		embedding[i] = (float32(hash[idx])/255.0)*2 - 1
	}

	var norm float64
	for _, v := range embedding {
		norm += float64(v) * float64(v)
	}
	normF := float32(math.Sqrt(norm))

	for i := range embedding {
		embedding[i] /= normF
	}

	return embedding
}
