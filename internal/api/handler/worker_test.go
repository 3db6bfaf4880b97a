package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dbwlsddd/Safety/internal/api/middleware"
	"github.com/dbwlsddd/Safety/internal/domain"
)

// MockWorkerService is a mock implementation of WorkerService
type MockWorkerService struct {
	mock.Mock
}

func (m *MockWorkerService) Register(ctx context.Context, worker *domain.Worker, photo []byte) error {
	args := m.Called(ctx, worker, photo)
	return args.Error(0)
}

func (m *MockWorkerService) Get(ctx context.Context, workerID uuid.UUID) (*domain.Worker, error) {
	args := m.Called(ctx, workerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Worker), args.Error(1)
}

func (m *MockWorkerService) List(ctx context.Context) ([]domain.Worker, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Worker), args.Error(1)
}

func (m *MockWorkerService) Update(ctx context.Context, worker *domain.Worker, photo []byte) error {
	args := m.Called(ctx, worker, photo)
	return args.Error(0)
}

func (m *MockWorkerService) Delete(ctx context.Context, workerID uuid.UUID) error {
	args := m.Called(ctx, workerID)
	return args.Error(0)
}

func newWorkerApp(service *MockWorkerService) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(testLogger()),
	})

	h := NewWorkerHandler(service, testLogger())
	app.Post("/workers", h.Register)
	app.Get("/workers", h.List)
	app.Get("/workers/:id", h.Get)
	app.Put("/workers/:id", h.Update)
	app.Delete("/workers/:id", h.Delete)
	return app
}

func workerForm(t *testing.T, fields map[string]string, photo []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if photo != nil {
		part, err := writer.CreateFormFile("image", "photo.png")
		require.NoError(t, err)
		_, err = part.Write(photo)
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestWorkerHandler_Register(t *testing.T) {
	t.Run("creates worker with photo", func(t *testing.T) {
		img := testImage(t)
		service := new(MockWorkerService)
		service.On("Register", mock.Anything, mock.MatchedBy(func(w *domain.Worker) bool {
			return w.Name == "Kim Jiyeon" && w.Department == "Assembly"
		}), img).Run(func(args mock.Arguments) {
			w := args.Get(1).(*domain.Worker)
			w.WorkerID = uuid.New()
			w.FaceVector = []float32{0.1}
			w.CreatedAt = time.Now()
		}).Return(nil)

		app := newWorkerApp(service)

		body, contentType := workerForm(t, map[string]string{
			"name":       "Kim Jiyeon",
			"department": "Assembly",
		}, img)
		req := httptest.NewRequest("POST", "/workers", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

		var got struct {
			Worker WorkerResponse `json:"worker"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, "Kim Jiyeon", got.Worker.Name)
		assert.True(t, got.Worker.Enrolled)
		service.AssertExpectations(t)
	})

	t.Run("missing name is a validation error", func(t *testing.T) {
		app := newWorkerApp(new(MockWorkerService))

		body, contentType := workerForm(t, map[string]string{"department": "Assembly"}, nil)
		req := httptest.NewRequest("POST", "/workers", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("duplicate employee number conflicts", func(t *testing.T) {
		service := new(MockWorkerService)
		service.On("Register", mock.Anything, mock.Anything, mock.Anything).Return(domain.ErrWorkerExists)

		app := newWorkerApp(service)

		body, contentType := workerForm(t, map[string]string{
			"name":            "Kim Jiyeon",
			"employee_number": "EMP-1042",
		}, nil)
		req := httptest.NewRequest("POST", "/workers", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	})
}

func TestWorkerHandler_List(t *testing.T) {
	service := new(MockWorkerService)
	service.On("List", mock.Anything).Return([]domain.Worker{
		{WorkerID: uuid.New(), Name: "A", FaceVector: []float32{0.1}, CreatedAt: time.Now()},
		{WorkerID: uuid.New(), Name: "B", CreatedAt: time.Now()},
	}, nil)

	app := newWorkerApp(service)

	req := httptest.NewRequest("GET", "/workers", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got struct {
		Workers []WorkerResponse `json:"workers"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got.Workers, 2)
	assert.True(t, got.Workers[0].Enrolled)
	assert.False(t, got.Workers[1].Enrolled)
}

func TestWorkerHandler_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		workerID := uuid.New()
		service := new(MockWorkerService)
		service.On("Get", mock.Anything, workerID).Return(&domain.Worker{
			WorkerID:  workerID,
			Name:      "Kim Jiyeon",
			CreatedAt: time.Now(),
		}, nil)

		app := newWorkerApp(service)

		req := httptest.NewRequest("GET", "/workers/"+workerID.String(), nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("not found", func(t *testing.T) {
		service := new(MockWorkerService)
		service.On("Get", mock.Anything, mock.Anything).Return(nil, domain.ErrWorkerNotFound)

		app := newWorkerApp(service)

		req := httptest.NewRequest("GET", "/workers/"+uuid.NewString(), nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("malformed id", func(t *testing.T) {
		app := newWorkerApp(new(MockWorkerService))

		req := httptest.NewRequest("GET", "/workers/not-a-uuid", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	})
}

func TestWorkerHandler_Update(t *testing.T) {
	workerID := uuid.New()

	t.Run("updates fields and re-enrolls with photo", func(t *testing.T) {
		img := testImage(t)
		service := new(MockWorkerService)
		service.On("Get", mock.Anything, workerID).Return(&domain.Worker{
			WorkerID:   workerID,
			Name:       "Old Name",
			Department: "Assembly",
			CreatedAt:  time.Now(),
		}, nil)
		service.On("Update", mock.Anything, mock.MatchedBy(func(w *domain.Worker) bool {
			return w.WorkerID == workerID && w.Name == "New Name" && w.Department == "Assembly"
		}), img).Return(nil)

		app := newWorkerApp(service)

		body, contentType := workerForm(t, map[string]string{"name": "New Name"}, img)
		req := httptest.NewRequest("PUT", "/workers/"+workerID.String(), body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		service.AssertExpectations(t)
	})

	t.Run("photo without a face is rejected", func(t *testing.T) {
		img := testImage(t)
		service := new(MockWorkerService)
		service.On("Get", mock.Anything, workerID).Return(&domain.Worker{WorkerID: workerID, Name: "Kim"}, nil)
		service.On("Update", mock.Anything, mock.Anything, mock.Anything).
			Return(fmt.Errorf("re-enroll: %w", domain.ErrNoFaceDetected))

		app := newWorkerApp(service)

		body, contentType := workerForm(t, nil, img)
		req := httptest.NewRequest("PUT", "/workers/"+workerID.String(), body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	})
}

func TestWorkerHandler_Delete(t *testing.T) {
	t.Run("deletes", func(t *testing.T) {
		workerID := uuid.New()
		service := new(MockWorkerService)
		service.On("Delete", mock.Anything, workerID).Return(nil)

		app := newWorkerApp(service)

		req := httptest.NewRequest("DELETE", "/workers/"+workerID.String(), nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
		service.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		service := new(MockWorkerService)
		service.On("Delete", mock.Anything, mock.Anything).Return(domain.ErrWorkerNotFound)

		app := newWorkerApp(service)

		req := httptest.NewRequest("DELETE", "/workers/"+uuid.NewString(), nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}
