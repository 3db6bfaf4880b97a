package domain

import (
	"fmt"
)

type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any AppError carrying the same code, so copies produced by
// WithError still satisfy errors.Is against the predefined sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Err:        err,
	}
}

// Pre-defined errors
var (
	ErrInternal = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		StatusCode: 500,
	}

	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "Invalid request",
		StatusCode: 400,
	}

	ErrValidationFailed = &AppError{
		Code:       "VALIDATION_FAILED",
		Message:    "Request validation failed",
		StatusCode: 422,
	}

	// ErrEmptyImage: the message carried no image payload. Recoverable:
	// streaming callers skip the message and wait for the next one.
	ErrEmptyImage = &AppError{
		Code:       "EMPTY_IMAGE",
		Message:    "No image payload in message",
		StatusCode: 400,
	}

	ErrInvalidImage = &AppError{
		Code:       "INVALID_IMAGE",
		Message:    "Invalid image format or corrupted data",
		StatusCode: 422,
	}

	// ErrNoFaceDetected is the expected outcome for frames without a face
	// when detection enforcement is on, not an exceptional condition.
	ErrNoFaceDetected = &AppError{
		Code:       "NO_FACE_DETECTED",
		Message:    "No face detected in the image",
		StatusCode: 422,
	}

	// ErrNoMatch: a face was found but no stored worker vector lies within
	// the recognition threshold.
	ErrNoMatch = &AppError{
		Code:       "NO_MATCH",
		Message:    "No matching worker found",
		StatusCode: 404,
	}

	// ErrResolver: the vector store query failed. Sessions log and keep
	// running; the next frame is attempted as usual.
	ErrResolver = &AppError{
		Code:       "RESOLVER_ERROR",
		Message:    "Worker vector store query failed",
		StatusCode: 500,
	}

	// ErrModelUnavailable: a model backend failed to load at startup. The
	// process keeps running; the affected capability fails closed.
	ErrModelUnavailable = &AppError{
		Code:       "MODEL_UNAVAILABLE",
		Message:    "Model backend is not available",
		StatusCode: 503,
	}

	ErrWorkerNotFound = &AppError{
		Code:       "WORKER_NOT_FOUND",
		Message:    "Worker not found",
		StatusCode: 404,
	}

	ErrWorkerExists = &AppError{
		Code:       "WORKER_EXISTS",
		Message:    "A worker with this employee number already exists",
		StatusCode: 409,
	}
)
