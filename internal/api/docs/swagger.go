package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// ImageRequest represents a JSON body carrying a base64 encoded frame
type ImageRequest struct {
	ImageBase64 string `json:"image_base64" example:"data:image/jpeg;base64,/9j/4AAQ..."`
}

// VectorizeResponse represents the response for embedding extraction
type VectorizeResponse struct {
	Status string    `json:"status" example:"SUCCESS"`
	Vector []float32 `json:"vector"`
}

// WorkerData represents an identified worker
type WorkerData struct {
	WorkerID       string  `json:"worker_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name           string  `json:"name" example:"Kim Jiyeon"`
	Department     string  `json:"department" example:"Assembly"`
	EmployeeNumber *string `json:"employee_number,omitempty" example:"EMP-1042"`
	Distance       float64 `json:"distance" example:"0.31"`
}

// RecognitionResponse represents the response for one-shot identification
type RecognitionResponse struct {
	Status  string      `json:"status" example:"SUCCESS"`
	Message string      `json:"message,omitempty" example:"worker identified"`
	Worker  *WorkerData `json:"worker,omitempty"`
}

// PPEDetectionData represents a single detection with box as [x, y, w, h]
type PPEDetectionData struct {
	Label      string     `json:"label" example:"helmet"`
	Box        [4]float64 `json:"box"`
	Confidence float64    `json:"confidence" example:"0.87"`
}

// DetectPPEResponse represents the response for raw PPE detection
type DetectPPEResponse struct {
	Detections []PPEDetectionData `json:"detections"`
}

// WorkerResponse represents a worker in management responses
type WorkerResponse struct {
	WorkerID       string  `json:"worker_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name           string  `json:"name" example:"Kim Jiyeon"`
	Department     string  `json:"department" example:"Assembly"`
	EmployeeNumber *string `json:"employee_number,omitempty" example:"EMP-1042"`
	Enrolled       bool    `json:"enrolled" example:"true"`
	CreatedAt      string  `json:"created_at" example:"2024-01-01T00:00:00Z"`
}

// WorkerListResponse wraps the worker list
type WorkerListResponse struct {
	Workers []WorkerResponse `json:"workers"`
}

// WorkerWrapResponse wraps a single worker
type WorkerWrapResponse struct {
	Worker WorkerResponse `json:"worker"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Message string `json:"message" example:"Safety AI Server is running."`
	Uptime  string `json:"uptime" example:"1h3m20s"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"VALIDATION_FAILED"`
	Message string `json:"message" example:"Request validation failed"`
}

// EmptyResponse represents no content response (204)
type EmptyResponse struct{}

// NewSwagger creates and configures the Swagger documentation
func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "Safety AI Server API",
		Version:     "v1.0.0",
		Description: "Worker identification and PPE compliance service. Streaming checks run over the /ws/face WebSocket; these endpoints cover the one-shot pipeline and worker management.",
		Host:        "localhost:8000",
		Path:        "/",
	})

	endpoints := []*endpoint.EndPoint{
		// GET /health - Health Check
		endpoint.New(
			endpoint.GET,
			"/health",
			endpoint.WithTags("Health"),
			endpoint.WithSummary("Health check"),
			endpoint.WithDescription("Returns server liveness"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(HealthResponse{}, "200", "Server is running"),
			}),
		),

		// POST /vectorize - Extract Embedding
		endpoint.New(
			endpoint.POST,
			"/vectorize",
			endpoint.WithTags("Recognition"),
			endpoint.WithSummary("Extract a face embedding from an uploaded photo"),
			endpoint.WithDescription("Extracts the face embedding for an uploaded image. Face detection is not enforced, so enrollment photos are vectorized best-effort."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(VectorizeResponse{}, "200", "Embedding extracted successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "image file is required"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "INVALID_IMAGE", Message: "Image data is not a decodable image"}, "422", "Unprocessable Entity"),
				response.New(VectorizeResponse{Status: "ERROR"}, "500", "Embedding extraction failed"),
			}),
		),

		// POST /recognize_worker - One-shot Identification
		endpoint.New(
			endpoint.POST,
			"/recognize_worker",
			endpoint.WithTags("Recognition"),
			endpoint.WithSummary("Identify a worker from a single frame"),
			endpoint.WithDescription("Runs the identification pipeline once: embedding extraction, nearest-neighbor lookup and threshold acceptance. FAILURE is a valid outcome, not a transport error."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(RecognitionResponse{}, "200", "Identification completed (SUCCESS or FAILURE)"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "BAD_REQUEST", Message: "Invalid request body"}, "400", "Bad Request"),
				response.New(RecognitionResponse{Status: "ERROR"}, "500", "Recognition pipeline error"),
			}),
		),

		// POST /detect_ppe - Raw PPE Detection
		endpoint.New(
			endpoint.POST,
			"/detect_ppe",
			endpoint.WithTags("Recognition"),
			endpoint.WithSummary("Detect PPE items in a single frame"),
			endpoint.WithDescription("Runs the object detector once and returns raw detections with boxes as [x, y, w, h]. No compliance verdict is computed."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(DetectPPEResponse{}, "200", "Detection completed successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "BAD_REQUEST", Message: "Invalid request body"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "INVALID_IMAGE", Message: "Image data is not a decodable image"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "MODEL_UNAVAILABLE", Message: "PPE detection model is unavailable"}, "503", "Service Unavailable"),
			}),
		),

		// POST /workers - Register Worker
		endpoint.New(
			endpoint.POST,
			"/workers",
			endpoint.WithTags("Workers"),
			endpoint.WithSummary("Register a new worker"),
			endpoint.WithDescription("Registers a worker with optional enrollment photo. When embedding extraction fails the worker is still created and picked up later by the batch enrollment job."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(WorkerWrapResponse{}, "201", "Worker registered successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "name is required"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "WORKER_EXISTS", Message: "Worker already exists"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// GET /workers - List Workers
		endpoint.New(
			endpoint.GET,
			"/workers",
			endpoint.WithTags("Workers"),
			endpoint.WithSummary("List all workers"),
			endpoint.WithDescription("Returns all registered workers with enrollment state. Vectors are never returned."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(WorkerListResponse{}, "200", "Workers retrieved successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// GET /workers/:id - Get Worker
		endpoint.New(
			endpoint.GET,
			"/workers/{id}",
			endpoint.WithTags("Workers"),
			endpoint.WithSummary("Get a worker"),
			endpoint.WithDescription("Returns one worker by id"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Worker UUID")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(WorkerWrapResponse{}, "200", "Worker retrieved successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Invalid worker ID"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "WORKER_NOT_FOUND", Message: "Worker not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// PUT /workers/:id - Update Worker
		endpoint.New(
			endpoint.PUT,
			"/workers/{id}",
			endpoint.WithTags("Workers"),
			endpoint.WithSummary("Update a worker"),
			endpoint.WithDescription("Updates identity fields. A new photo triggers re-enrollment of the stored face vector."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Worker UUID")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(WorkerWrapResponse{}, "200", "Worker updated successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Invalid worker ID"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "WORKER_NOT_FOUND", Message: "Worker not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "WORKER_EXISTS", Message: "Employee number already in use"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "NO_FACE_DETECTED", Message: "No face detected in photo"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// DELETE /workers/:id - Delete Worker
		endpoint.New(
			endpoint.DELETE,
			"/workers/{id}",
			endpoint.WithTags("Workers"),
			endpoint.WithSummary("Delete a worker"),
			endpoint.WithDescription("Deletes a worker and its stored face vector"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Worker UUID")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmptyResponse{}, "204", "Worker deleted successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Invalid worker ID"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "WORKER_NOT_FOUND", Message: "Worker not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
