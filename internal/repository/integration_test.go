//go:build integration

package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dbwlsddd/Safety/internal/domain"
)

// The test table uses 4-dimensional vectors so fixtures stay readable; the
// repository is dimension-agnostic.
func setupIntegrationTest(t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "pgvector/pgvector:pg16",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "safety_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("postgres://test:test@%s:%s/safety_test?sslmode=disable", host, port.Port())

	db, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	_, err = db.Exec(ctx, `
		CREATE EXTENSION IF NOT EXISTS "vector";

		CREATE TABLE IF NOT EXISTS workers (
			worker_id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(255) NOT NULL,
			department VARCHAR(255) NOT NULL DEFAULT '',
			employee_number VARCHAR(64) UNIQUE,
			image_path TEXT,
			face_vector vector(4),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}

	return db, cleanup
}

func insertEnrolled(t *testing.T, db *pgxpool.Pool, name string, vector []float32) uuid.UUID {
	t.Helper()
	workerID := uuid.New()
	_, err := db.Exec(context.Background(),
		`INSERT INTO workers (worker_id, name, face_vector) VALUES ($1, $2, $3)`,
		workerID, name, pgvector.NewVector(vector),
	)
	require.NoError(t, err)
	return workerID
}

func TestWorkerRepository_Nearest_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupIntegrationTest(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewWorkerRepository(db)

	t.Run("empty store returns nil", func(t *testing.T) {
		got, err := repo.Nearest(ctx, []float32{1, 0, 0, 0})
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	closeID := insertEnrolled(t, db, "Close", []float32{1, 0, 0, 0})
	insertEnrolled(t, db, "Far", []float32{0, 1, 0, 0})

	t.Run("returns the closest worker with its distance", func(t *testing.T) {
		got, err := repo.Nearest(ctx, []float32{0.9, 0.1, 0, 0})
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, closeID, got.WorkerID)
		assert.Equal(t, "Close", got.Name)
		assert.Less(t, got.Distance, 0.1)
	})

	t.Run("unenrolled workers never match", func(t *testing.T) {
		_, err := db.Exec(ctx, `INSERT INTO workers (name, image_path) VALUES ('Pending', 'pending.png')`)
		require.NoError(t, err)

		got, err := repo.Nearest(ctx, []float32{0, 1, 0, 0})
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Far", got.Name)
	})
}

func TestWorkerRepository_EnrollmentFlow_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupIntegrationTest(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewWorkerRepository(db)

	number := "EMP-1042"
	worker := &domain.Worker{
		Name:           "Kim Jiyeon",
		Department:     "Assembly",
		EmployeeNumber: &number,
		ImagePath:      "kim.png",
	}
	require.NoError(t, repo.Create(ctx, worker))
	require.NotEqual(t, uuid.Nil, worker.WorkerID)

	t.Run("new worker is queued for enrollment", func(t *testing.T) {
		queue, err := repo.ListUnenrolled(ctx)
		require.NoError(t, err)
		require.Len(t, queue, 1)
		assert.Equal(t, worker.WorkerID, queue[0].WorkerID)
		assert.Equal(t, "kim.png", queue[0].ImagePath)
	})

	t.Run("vector update drains the queue", func(t *testing.T) {
		require.NoError(t, repo.UpdateVector(ctx, worker.WorkerID, []float32{0.5, 0.5, 0, 0}))

		queue, err := repo.ListUnenrolled(ctx)
		require.NoError(t, err)
		assert.Empty(t, queue)

		got, err := repo.Nearest(ctx, []float32{0.5, 0.5, 0, 0})
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, worker.WorkerID, got.WorkerID)
		assert.InDelta(t, 0, got.Distance, 1e-6)
	})

	t.Run("duplicate employee number conflicts", func(t *testing.T) {
		dup := &domain.Worker{Name: "Other", EmployeeNumber: &number}
		err := repo.Create(ctx, dup)
		assert.ErrorIs(t, err, domain.ErrWorkerExists)
	})

	t.Run("delete removes worker and vector", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, worker.WorkerID))

		_, err := repo.GetByID(ctx, worker.WorkerID)
		assert.ErrorIs(t, err, domain.ErrWorkerNotFound)

		got, err := repo.Nearest(ctx, []float32{0.5, 0.5, 0, 0})
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}
