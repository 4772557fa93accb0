// Package logging configures the process-wide slog logger.
//
// The level comes from the LOG_LEVEL environment variable (debug, info,
// warn, error) and can be forced to debug with SetVerbose. Output is a text
// handler on stderr so it interleaves with the CLI's own status lines.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Init installs the default logger using LOG_LEVEL.
func Init() {
	SetLevel(ParseLevel(os.Getenv("LOG_LEVEL")))
}

// ParseLevel maps a LOG_LEVEL value to a slog level, defaulting to info.
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

// SetLevel replaces the default logger with one at the given level.
func SetLevel(level slog.Level) {
	slog.SetDefault(New(os.Stderr, level))
}

// SetVerbose enables debug-level logging when verbose is true. Otherwise
// the LOG_LEVEL setting is kept.
func SetVerbose(verbose bool) {
	if verbose {
		SetLevel(slog.LevelDebug)
	}
}

// New builds a text logger writing to w.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
