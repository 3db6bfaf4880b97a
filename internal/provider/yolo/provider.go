package yolo

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/dbwlsddd/Safety/internal/provider"
)

// Provider implements provider.PPEDetector against a YOLO HTTP server.
type Provider struct {
	client *Client
}

// NewProvider creates a new YOLO provider
func NewProvider(config Config) *Provider {
	return &Provider{
		client: NewClient(config),
	}
}

// Detect runs object detection and returns every detection at or above
// confidenceFloor with the model's raw labels.
func (p *Provider) Detect(ctx context.Context, image []byte, confidenceFloor float64) ([]provider.RawDetection, error) {
	imageBase64 := base64.StdEncoding.EncodeToString(image)

	resp, err := p.client.Detect(ctx, imageBase64, confidenceFloor)
	if err != nil {
		return nil, fmt.Errorf("detect: %w", err)
	}

	detections := make([]provider.RawDetection, 0, len(resp.Detections))
	for _, d := range resp.Detections {
		if d.Confidence < confidenceFloor {
			continue
		}
		detections = append(detections, provider.RawDetection{
			Box:        d.Box,
			Label:      d.Label,
			ClassID:    d.ClassID,
			Confidence: d.Confidence,
		})
	}

	return detections, nil
}

// Ping probes the detection server once at startup.
func (p *Provider) Ping(ctx context.Context) error {
	return p.client.Ping(ctx)
}
