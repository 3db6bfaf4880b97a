package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/dbwlsddd/Safety/internal/domain"
)

// WorkerRepository provides access to the workers table and its vector
// index. Sessions construct one over their cached connection; one-shot
// handlers construct one over the shared pool.
type WorkerRepository struct {
	pool PgxPool
}

func NewWorkerRepository(pool PgxPool) *WorkerRepository {
	return &WorkerRepository{pool: pool}
}

// Nearest returns the single stored worker closest to the query embedding
// by cosine distance, or nil when no enrolled workers exist. Threshold
// acceptance is the caller's decision; this only answers "who is closest
// and how far". Equidistant workers come back in whatever order the store
// picks.
func (r *WorkerRepository) Nearest(ctx context.Context, embedding []float32) (*domain.IdentificationResult, error) {
	query := `
		SELECT worker_id, name, department, employee_number, face_vector <=> $1 AS distance
		FROM workers
		WHERE face_vector IS NOT NULL
		ORDER BY distance
		LIMIT 1
	`

	var result domain.IdentificationResult
	err := r.pool.QueryRow(ctx, query, pgvector.NewVector(embedding)).Scan(
		&result.WorkerID,
		&result.Name,
		&result.Department,
		&result.EmployeeNumber,
		&result.Distance,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("nearest worker: %w", err)
	}

	return &result, nil
}

// Create inserts a new worker. A vector is stored only when the worker is
// already enrolled at registration time.
func (r *WorkerRepository) Create(ctx context.Context, worker *domain.Worker) error {
	query := `
		INSERT INTO workers (worker_id, name, department, employee_number, image_path, face_vector, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING created_at
	`

	if worker.WorkerID == uuid.Nil {
		worker.WorkerID = uuid.New()
	}

	var vector *pgvector.Vector
	if len(worker.FaceVector) > 0 {
		v := pgvector.NewVector(worker.FaceVector)
		vector = &v
	}

	err := r.pool.QueryRow(ctx, query,
		worker.WorkerID,
		worker.Name,
		worker.Department,
		worker.EmployeeNumber,
		worker.ImagePath,
		vector,
	).Scan(&worker.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrWorkerExists
		}
		return fmt.Errorf("create worker: %w", err)
	}

	return nil
}

// GetByID loads a worker without its vector.
func (r *WorkerRepository) GetByID(ctx context.Context, workerID uuid.UUID) (*domain.Worker, error) {
	query := `
		SELECT worker_id, name, department, employee_number, image_path, created_at
		FROM workers
		WHERE worker_id = $1
	`

	var worker domain.Worker
	var imagePath *string
	err := r.pool.QueryRow(ctx, query, workerID).Scan(
		&worker.WorkerID,
		&worker.Name,
		&worker.Department,
		&worker.EmployeeNumber,
		&imagePath,
		&worker.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrWorkerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get worker: %w", err)
	}

	if imagePath != nil {
		worker.ImagePath = *imagePath
	}

	return &worker, nil
}

// List returns all workers ordered by creation time, vectors omitted.
func (r *WorkerRepository) List(ctx context.Context) ([]domain.Worker, error) {
	query := `
		SELECT worker_id, name, department, employee_number, image_path, face_vector IS NOT NULL, created_at
		FROM workers
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list workers: %w", err)
	}
	defer rows.Close()

	var workers []domain.Worker
	for rows.Next() {
		var worker domain.Worker
		var imagePath *string
		var enrolled bool
		if err := rows.Scan(
			&worker.WorkerID,
			&worker.Name,
			&worker.Department,
			&worker.EmployeeNumber,
			&imagePath,
			&enrolled,
			&worker.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan worker: %w", err)
		}
		if imagePath != nil {
			worker.ImagePath = *imagePath
		}
		if enrolled {
			// Marker vector: callers only need Enrolled(), not the data.
			worker.FaceVector = []float32{}
		}
		workers = append(workers, worker)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list workers: %w", err)
	}

	return workers, nil
}

// ListUnenrolled returns workers with a source photo but no stored vector,
// which is the batch enrollment job's work queue.
func (r *WorkerRepository) ListUnenrolled(ctx context.Context) ([]domain.Worker, error) {
	query := `
		SELECT worker_id, name, image_path
		FROM workers
		WHERE face_vector IS NULL AND image_path IS NOT NULL
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list unenrolled workers: %w", err)
	}
	defer rows.Close()

	var workers []domain.Worker
	for rows.Next() {
		var worker domain.Worker
		if err := rows.Scan(&worker.WorkerID, &worker.Name, &worker.ImagePath); err != nil {
			return nil, fmt.Errorf("scan unenrolled worker: %w", err)
		}
		workers = append(workers, worker)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list unenrolled workers: %w", err)
	}

	return workers, nil
}

// UpdateVector persists an embedding for one worker. One atomic UPDATE per
// row; a worker is either fully enrolled or not, never half-written.
func (r *WorkerRepository) UpdateVector(ctx context.Context, workerID uuid.UUID, embedding []float32) error {
	query := `
		UPDATE workers
		SET face_vector = $1
		WHERE worker_id = $2
	`

	result, err := r.pool.Exec(ctx, query, pgvector.NewVector(embedding), workerID)
	if err != nil {
		return fmt.Errorf("update worker vector: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrWorkerNotFound
	}

	return nil
}

// Update rewrites a worker's identity fields. The vector is untouched
// unless the caller re-enrolls via UpdateVector.
func (r *WorkerRepository) Update(ctx context.Context, worker *domain.Worker) error {
	query := `
		UPDATE workers
		SET name = $1, department = $2, employee_number = $3, image_path = $4
		WHERE worker_id = $5
	`

	result, err := r.pool.Exec(ctx, query,
		worker.Name,
		worker.Department,
		worker.EmployeeNumber,
		worker.ImagePath,
		worker.WorkerID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrWorkerExists
		}
		return fmt.Errorf("update worker: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrWorkerNotFound
	}

	return nil
}

// Delete removes a worker and its vector.
func (r *WorkerRepository) Delete(ctx context.Context, workerID uuid.UUID) error {
	query := `
		DELETE FROM workers
		WHERE worker_id = $1
	`

	result, err := r.pool.Exec(ctx, query, workerID)
	if err != nil {
		return fmt.Errorf("delete worker: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrWorkerNotFound
	}

	return nil
}
