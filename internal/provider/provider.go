package provider

import "context"

// FaceEmbedder wraps the face-embedding model. The model and detector
// backend behind an implementation are fixed per deployment and must match
// the configuration that produced the stored worker vectors.
type FaceEmbedder interface {
	// Represent extracts a face embedding from the image. With
	// enforceDetection true, ErrNoFaceDetected is returned when no face is
	// found; this is an expected outcome for live frames. With
	// enforceDetection false the model embeds best-effort (enrollment path).
	Represent(ctx context.Context, image []byte, enforceDetection bool) ([]float32, error)
}

// PPEDetector wraps the object-detection model.
type PPEDetector interface {
	// Detect runs detection over all model classes and returns every
	// detection at or above confidenceFloor, labels as the model names them.
	Detect(ctx context.Context, image []byte, confidenceFloor float64) ([]RawDetection, error)
}

// RawDetection is one detected box as the model reports it, before any
// label canonicalization. Box is [x1, y1, x2, y2].
type RawDetection struct {
	Box        [4]float64 `json:"box"`
	Label      string     `json:"label"`
	ClassID    int        `json:"class_id"`
	Confidence float64    `json:"confidence"`
}
