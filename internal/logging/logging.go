package logging

import (
	"log/slog"
	"os"
	"strings"
)

// FromEnv builds the process logger from TALLY_LOG_LEVEL.
func FromEnv() *slog.Logger {
	return Setup(os.Getenv("TALLY_LOG_LEVEL"))
}

// Setup creates a configured *slog.Logger, sets it as the default, and returns it.
// The level accepts "debug", "info", "warn", "error" (case-insensitive) and
// falls back to info for anything else, including the empty string.
func Setup(level string) *slog.Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
