// Package logging builds the process-wide slog logger.
package logging

import (
	"log/slog"
	"os"
)

// New returns a JSON logger in production and a text logger everywhere
// else.
func New(env string) *slog.Logger {
	if env == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
