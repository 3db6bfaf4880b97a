package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/dbwlsddd/Safety/internal/codec"
	"github.com/dbwlsddd/Safety/internal/domain"
)

const (
	maxImageSize = 10 * 1024 * 1024 // 10MB
)

// RecognitionService is the identification surface for one-shot requests.
type RecognitionService interface {
	Identify(ctx context.Context, image []byte) (*domain.IdentificationResult, error)
	Vectorize(ctx context.Context, image []byte) ([]float32, error)
}

// ComplianceService is the detection surface for one-shot requests.
type ComplianceService interface {
	Detections(ctx context.Context, image []byte) ([]domain.Detection, error)
}

// RecognitionHandler serves the one-shot pipeline endpoints. These mirror
// the streaming decisions exactly; only the transport differs.
type RecognitionHandler struct {
	recognition RecognitionService
	compliance  ComplianceService
	logger      *slog.Logger
}

func NewRecognitionHandler(recognition RecognitionService, compliance ComplianceService, logger *slog.Logger) *RecognitionHandler {
	return &RecognitionHandler{
		recognition: recognition,
		compliance:  compliance,
		logger:      logger,
	}
}

// ImageRequest is the JSON body carrying a base64 frame, optionally with a
// data-URI prefix.
type ImageRequest struct {
	ImageBase64 string `json:"image_base64"`
}

// VectorizeResponse is the POST /vectorize response
type VectorizeResponse struct {
	Status  string    `json:"status"`
	Vector  []float32 `json:"vector,omitempty"`
	Message string    `json:"message,omitempty"`
}

// RecognitionResponse is the POST /recognize_worker response. FAILURE is a
// valid outcome (bad image, no face, no match), not a transport error.
type RecognitionResponse struct {
	Status  string                       `json:"status"`
	Message string                       `json:"message,omitempty"`
	Worker  *domain.IdentificationResult `json:"worker,omitempty"`
}

// PPEDetection is one detection in the POST /detect_ppe response, box as
// [x, y, w, h].
type PPEDetection struct {
	Label      string     `json:"label"`
	Box        [4]float64 `json:"box"`
	Confidence float64    `json:"confidence"`
}

// DetectPPEResponse is the POST /detect_ppe response
type DetectPPEResponse struct {
	Detections []PPEDetection `json:"detections"`
}

// Vectorize POST /vectorize - extract an embedding from an uploaded photo.
// Detection is not enforced: enrollment photos vectorize best-effort.
func (h *RecognitionHandler) Vectorize(c *fiber.Ctx) error {
	imageBytes, err := extractUploadedImage(c)
	if err != nil {
		return err
	}

	vector, err := h.recognition.Vectorize(c.Context(), imageBytes)
	if err != nil {
		h.logger.Error("vectorize failed", slog.Any("error", err))
		return c.Status(fiber.StatusInternalServerError).JSON(VectorizeResponse{
			Status:  "ERROR",
			Message: "embedding extraction failed",
		})
	}

	return c.JSON(VectorizeResponse{
		Status: "SUCCESS",
		Vector: vector,
	})
}

// RecognizeWorker POST /recognize_worker - one-shot identification.
func (h *RecognitionHandler) RecognizeWorker(c *fiber.Ctx) error {
	var req ImageRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	imageBytes, err := codec.DecodeBase64(req.ImageBase64)
	if err != nil {
		return c.JSON(RecognitionResponse{
			Status:  "FAILURE",
			Message: "invalid image data",
		})
	}

	worker, err := h.recognition.Identify(c.Context(), imageBytes)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoFaceDetected):
			return c.JSON(RecognitionResponse{
				Status:  "FAILURE",
				Message: "no face detected",
			})
		case errors.Is(err, domain.ErrNoMatch):
			return c.JSON(RecognitionResponse{
				Status:  "FAILURE",
				Message: "no matching worker",
			})
		default:
			h.logger.Error("recognition failed", slog.Any("error", err))
			return c.Status(fiber.StatusInternalServerError).JSON(RecognitionResponse{
				Status:  "ERROR",
				Message: "recognition pipeline error",
			})
		}
	}

	return c.JSON(RecognitionResponse{
		Status:  "SUCCESS",
		Message: "worker identified",
		Worker:  worker,
	})
}

// DetectPPE POST /detect_ppe - one-shot detection, no verdict. Boxes come
// back as [x, y, w, h] for this endpoint's legacy consumers.
func (h *RecognitionHandler) DetectPPE(c *fiber.Ctx) error {
	var req ImageRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	imageBytes, err := codec.DecodeBase64(req.ImageBase64)
	if err != nil {
		return err
	}

	detections, err := h.compliance.Detections(c.Context(), imageBytes)
	if err != nil {
		return err
	}

	out := make([]PPEDetection, 0, len(detections))
	for _, d := range detections {
		out = append(out, PPEDetection{
			Label: d.Label,
			Box: [4]float64{
				d.Box[0],
				d.Box[1],
				d.Box[2] - d.Box[0],
				d.Box[3] - d.Box[1],
			},
			Confidence: d.Confidence,
		})
	}

	return c.JSON(DetectPPEResponse{Detections: out})
}

// extractUploadedImage reads and validates a multipart image upload.
func extractUploadedImage(c *fiber.Ctx) ([]byte, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return nil, domain.ErrValidationFailed.WithError(err)
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

	imageBytes, err := io.ReadAll(f)
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}

	if err := codec.ValidateImage(imageBytes); err != nil {
		return nil, err
	}

	return imageBytes, nil
}
