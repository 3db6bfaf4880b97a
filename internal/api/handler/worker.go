package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/dbwlsddd/Safety/internal/codec"
	"github.com/dbwlsddd/Safety/internal/domain"
)

// WorkerService is the management surface behind /workers.
type WorkerService interface {
	Register(ctx context.Context, worker *domain.Worker, photo []byte) error
	Get(ctx context.Context, workerID uuid.UUID) (*domain.Worker, error)
	List(ctx context.Context) ([]domain.Worker, error)
	Update(ctx context.Context, worker *domain.Worker, photo []byte) error
	Delete(ctx context.Context, workerID uuid.UUID) error
}

type WorkerHandler struct {
	service WorkerService
	logger  *slog.Logger
}

func NewWorkerHandler(service WorkerService, logger *slog.Logger) *WorkerHandler {
	return &WorkerHandler{
		service: service,
		logger:  logger,
	}
}

// WorkerResponse is one worker in management responses. The vector itself
// never leaves the store; only enrollment state does.
type WorkerResponse struct {
	WorkerID       uuid.UUID `json:"worker_id"`
	Name           string    `json:"name"`
	Department     string    `json:"department"`
	EmployeeNumber *string   `json:"employee_number,omitempty"`
	Enrolled       bool      `json:"enrolled"`
	CreatedAt      string    `json:"created_at"`
}

// Register POST /workers - multipart form with identity fields and an
// optional enrollment photo.
func (h *WorkerHandler) Register(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		return domain.ErrValidationFailed.WithError(errors.New("name is required"))
	}

	worker := &domain.Worker{
		Name:       name,
		Department: strings.TrimSpace(c.FormValue("department")),
	}
	if number := strings.TrimSpace(c.FormValue("employee_number")); number != "" {
		worker.EmployeeNumber = &number
	}
	worker.ImagePath = strings.TrimSpace(c.FormValue("image_path"))

	photo, err := extractOptionalPhoto(c)
	if err != nil {
		return err
	}

	if err := h.service.Register(c.Context(), worker, photo); err != nil {
		if errors.Is(err, domain.ErrWorkerExists) {
			return domain.ErrWorkerExists
		}
		h.logger.Error("worker registration failed", slog.String("name", name), slog.Any("error", err))
		return domain.ErrInternal.WithError(err)
	}

	h.logger.Info("worker registered",
		slog.String("worker_id", worker.WorkerID.String()),
		slog.String("name", worker.Name),
		slog.Bool("enrolled", worker.Enrolled()),
	)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"worker": toWorkerResponse(worker),
	})
}

// List GET /workers
func (h *WorkerHandler) List(c *fiber.Ctx) error {
	workers, err := h.service.List(c.Context())
	if err != nil {
		h.logger.Error("failed to list workers", slog.Any("error", err))
		return domain.ErrInternal.WithError(err)
	}

	response := make([]WorkerResponse, 0, len(workers))
	for i := range workers {
		response = append(response, toWorkerResponse(&workers[i]))
	}

	return c.JSON(fiber.Map{
		"workers": response,
	})
}

// Get GET /workers/:id
func (h *WorkerHandler) Get(c *fiber.Ctx) error {
	workerID, err := parseWorkerID(c)
	if err != nil {
		return err
	}

	worker, err := h.service.Get(c.Context(), workerID)
	if err != nil {
		if errors.Is(err, domain.ErrWorkerNotFound) {
			return domain.ErrWorkerNotFound
		}
		h.logger.Error("failed to get worker", slog.String("worker_id", workerID.String()), slog.Any("error", err))
		return domain.ErrInternal.WithError(err)
	}

	return c.JSON(fiber.Map{
		"worker": toWorkerResponse(worker),
	})
}

// Update PUT /workers/:id - identity fields, plus an optional new photo
// that triggers re-enrollment.
func (h *WorkerHandler) Update(c *fiber.Ctx) error {
	workerID, err := parseWorkerID(c)
	if err != nil {
		return err
	}

	current, err := h.service.Get(c.Context(), workerID)
	if err != nil {
		if errors.Is(err, domain.ErrWorkerNotFound) {
			return domain.ErrWorkerNotFound
		}
		return domain.ErrInternal.WithError(err)
	}

	if name := strings.TrimSpace(c.FormValue("name")); name != "" {
		current.Name = name
	}
	if department := strings.TrimSpace(c.FormValue("department")); department != "" {
		current.Department = department
	}
	if number := strings.TrimSpace(c.FormValue("employee_number")); number != "" {
		current.EmployeeNumber = &number
	}
	if imagePath := strings.TrimSpace(c.FormValue("image_path")); imagePath != "" {
		current.ImagePath = imagePath
	}

	photo, err := extractOptionalPhoto(c)
	if err != nil {
		return err
	}

	if err := h.service.Update(c.Context(), current, photo); err != nil {
		switch {
		case errors.Is(err, domain.ErrWorkerNotFound):
			return domain.ErrWorkerNotFound
		case errors.Is(err, domain.ErrWorkerExists):
			return domain.ErrWorkerExists
		case errors.Is(err, domain.ErrNoFaceDetected):
			return domain.ErrNoFaceDetected
		default:
			h.logger.Error("worker update failed", slog.String("worker_id", workerID.String()), slog.Any("error", err))
			return domain.ErrInternal.WithError(err)
		}
	}

	h.logger.Info("worker updated",
		slog.String("worker_id", workerID.String()),
		slog.Bool("re_enrolled", photo != nil),
	)

	return c.JSON(fiber.Map{
		"worker": toWorkerResponse(current),
	})
}

// Delete DELETE /workers/:id
func (h *WorkerHandler) Delete(c *fiber.Ctx) error {
	workerID, err := parseWorkerID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Context(), workerID); err != nil {
		if errors.Is(err, domain.ErrWorkerNotFound) {
			return domain.ErrWorkerNotFound
		}
		h.logger.Error("worker deletion failed", slog.String("worker_id", workerID.String()), slog.Any("error", err))
		return domain.ErrInternal.WithError(err)
	}

	h.logger.Info("worker deleted", slog.String("worker_id", workerID.String()))

	return c.Status(fiber.StatusNoContent).Send(nil)
}

func parseWorkerID(c *fiber.Ctx) (uuid.UUID, error) {
	workerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, domain.ErrValidationFailed.WithError(err)
	}
	return workerID, nil
}

// extractOptionalPhoto reads the "image" form file when present. A missing
// file is not an error; a present but invalid one is.
func extractOptionalPhoto(c *fiber.Ctx) ([]byte, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return nil, nil
	}

	if file.Size == 0 || file.Size > maxImageSize {
		return nil, domain.ErrInvalidImage
	}

	f, err := file.Open()
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}
	defer func() {
		_ = f.Close()
	}()

	photo, err := io.ReadAll(f)
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}

	if err := codec.ValidateImage(photo); err != nil {
		return nil, err
	}

	return photo, nil
}

func toWorkerResponse(worker *domain.Worker) WorkerResponse {
	return WorkerResponse{
		WorkerID:       worker.WorkerID,
		Name:           worker.Name,
		Department:     worker.Department,
		EmployeeNumber: worker.EmployeeNumber,
		Enrolled:       worker.Enrolled(),
		CreatedAt:      worker.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
