package middleware

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/dbwlsddd/Safety/internal/domain"
)

// ErrorHandler translates errors escaping a handler into the JSON error
// envelope. AppError carries its own status code; anything unrecognized
// becomes a 500 without leaking internals to the client.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var appErr *domain.AppError
		if errors.As(err, &appErr) {
			if appErr.StatusCode >= 500 {
				logger.Error("request failed",
					slog.String("code", appErr.Code),
					slog.String("path", c.Path()),
					slog.Any("error", appErr.Err),
				)
			}
			return writeError(c, appErr.StatusCode, appErr.Code, appErr.Message)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return writeError(c, fiberErr.Code, "HTTP_ERROR", fiberErr.Message)
		}

		logger.Error("unhandled error",
			slog.String("path", c.Path()),
			slog.String("request_id", requestID(c)),
			slog.Any("error", err),
		)
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred")
	}
}

func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}
