package logger

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"
)

type ctxKey struct{}

// NewConsole returns a human-readable logger writing to w. The CLI passes
// stderr so stdout stays reserved for the report itself.
func NewConsole(w io.Writer, level zerolog.Level) zerolog.Logger {
	return NewWithWriter(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}, level)
}

// NewWithWriter creates a structured logger with a custom writer.
func NewWithWriter(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// ParseLevel maps a config string to a level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// WithContext stores the logger in ctx.
func WithContext(ctx context.Context, l zerolog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger stored in ctx, or a disabled logger.
func FromContext(ctx context.Context) zerolog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(zerolog.Logger); ok {
		return l
	}
	return zerolog.Nop()
}
