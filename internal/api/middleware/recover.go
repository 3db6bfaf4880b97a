package middleware

import (
	"log/slog"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
)

// Recover turns a handler panic into a 500 response instead of tearing
// down the server. The stack is logged; the client sees the generic
// error envelope.
func Recover(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					slog.Any("panic", r),
					slog.String("method", c.Method()),
					slog.String("path", c.Path()),
					slog.String("stack", string(debug.Stack())),
				)

				_ = writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred")
			}
		}()
		return c.Next()
	}
}
