package domain

import (
	"time"

	"github.com/google/uuid"
)

// Worker is an enrolled worker identity. FaceVector is nil until the
// enrollment job (or an explicit re-enrollment) has computed an embedding
// for the worker's photo; when present its dimensionality matches the
// configured embedding model.
type Worker struct {
	WorkerID       uuid.UUID `json:"worker_id"`
	Name           string    `json:"name"`
	Department     string    `json:"department"`
	EmployeeNumber *string   `json:"employee_number,omitempty"`
	ImagePath      string    `json:"image_path,omitempty"`
	FaceVector     []float32 `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// Enrolled reports whether the worker has a stored face vector.
func (w *Worker) Enrolled() bool {
	return len(w.FaceVector) > 0
}

// IdentificationResult is the accepted nearest-neighbor match for one frame.
// Distance is the cosine distance between the query embedding and the stored
// vector (lower is closer).
type IdentificationResult struct {
	WorkerID       uuid.UUID `json:"worker_id"`
	Name           string    `json:"name"`
	Department     string    `json:"department"`
	EmployeeNumber *string   `json:"employee_number"`
	Distance       float64   `json:"distance"`
}
