// Package logger configures the structured logger shared by all components.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Setup creates a JSON logger writing to stdout at the given level and installs it
// as the slog default. Unknown levels fall back to info with a warning.
func Setup(level string) *slog.Logger {
	return setup(os.Stdout, level)
}

func setup(w io.Writer, level string) *slog.Logger {
	parsed, ok := ParseLevel(level)
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parsed})
	logger := slog.New(handler)
	if !ok {
		logger.Warn("invalid log level configured, using default level",
			"configured_level", level,
			"default_level", "info")
	}
	slog.SetDefault(logger)
	return logger
}

// ParseLevel maps a case-insensitive level name to a slog.Level
func ParseLevel(level string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
