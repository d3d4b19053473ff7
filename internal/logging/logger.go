package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseLevel maps LOG_LEVEL values onto slog levels; unknown values mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewStdoutHandler returns JSON output, or text output for local development.
func NewStdoutHandler(w io.Writer, level slog.Level, development bool) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if development {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

// Setup installs the stdout logger used until the database sink is available.
func Setup(level slog.Level, development bool) {
	slog.SetDefault(slog.New(NewStdoutHandler(os.Stdout, level, development)))
}
