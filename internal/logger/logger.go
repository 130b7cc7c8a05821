// Package logger configures the process-wide zerolog logger.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New returns a console logger writing to w at the given level.
// Unknown levels fall back to info.
func New(w io.Writer, level string) zerolog.Logger {
	lvl := parseLevel(level)
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// NewStderr returns the default logger used by the CLI. Logging is an
// observer only; no component reads state back out of it.
func NewStderr(level string) zerolog.Logger {
	return New(os.Stderr, level)
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "quiet":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
