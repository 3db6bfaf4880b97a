package config

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger: JSON at info level in production,
// human-readable text at debug level everywhere else. Source locations
// are only attached outside production to keep log volume down on busy
// streaming sessions.
func NewLogger(env string) *slog.Logger {
	if env == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	}))
}
