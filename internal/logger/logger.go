// Package logger wraps zerolog.Logger. It is the diagnostic sink of the
// organiser: non-fatal parse problems are reported at Warn level, the changes
// made by each pass at Info level.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is a thin wrapper around zerolog.Logger.
type Logger struct {
	zerolog.Logger
}

// New creates a JSON logger writing to w with a "role" field and timestamps.
func New(w io.Writer, role string) *Logger {
	l := zerolog.New(w).With().
		Str("role", role).
		Timestamp().
		Logger()

	return &Logger{l}
}

// NewConsole creates a human-readable logger on stderr for command line use.
// An unknown level falls back to info.
func NewConsole(role, level string) *Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	l := zerolog.New(out).Level(lvl).With().
		Str("role", role).
		Timestamp().
		Logger()

	return &Logger{l}
}

// Nop returns a *Logger that discards all output.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// With returns a child logger carrying an additional string field.
func (l *Logger) With(key, value string) *Logger {
	return &Logger{l.Logger.With().Str(key, value).Logger()}
}
