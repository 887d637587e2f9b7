// Package logger configures the process-wide structured logger and
// provides field helpers shared by all components.
// No external dependencies - uses only standard library (log/slog).
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Format selects the log output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// ParseLevel parses a string into a slog.Level. Unknown values fall
// back to Info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Options configures the logger.
type Options struct {
	Output io.Writer
	Level  slog.Level
	Format Format

	// AddSource includes the caller file:line in every record.
	AddSource bool
}

// DefaultOptions returns sensible defaults for the logger.
func DefaultOptions() Options {
	return Options{
		Output: os.Stdout,
		Level:  slog.LevelInfo,
		Format: FormatJSON,
	}
}

// New creates a slog.Logger with the given options.
func New(opts Options) *slog.Logger {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	handlerOpts := &slog.HandlerOptions{
		Level:     opts.Level,
		AddSource: opts.AddSource,
	}

	var handler slog.Handler
	switch opts.Format {
	case FormatText:
		handler = slog.NewTextHandler(opts.Output, handlerOpts)
	default:
		handler = slog.NewJSONHandler(opts.Output, handlerOpts)
	}

	return slog.New(handler)
}

// Setup creates a logger from string settings (as read from the
// environment) and installs it as the slog default.
func Setup(level, format string) *slog.Logger {
	l := New(Options{
		Output: os.Stdout,
		Level:  ParseLevel(level),
		Format: Format(strings.ToLower(format)),
	})
	slog.SetDefault(l)
	return l
}

// Context key for logger.
type ctxKey struct{}

// WithContext returns a new context with the logger attached.
func WithContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext retrieves the logger from context, or returns the default.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// Domain field helpers.
func ResidentID(id string) slog.Attr       { return slog.String("resident_id", id) }
func SpecializationID(id string) slog.Attr { return slog.String("specialization_id", id) }
func ModuleID(id string) slog.Attr         { return slog.String("module_id", id) }
func InternshipID(id string) slog.Attr     { return slog.String("internship_id", id) }
func ProgramCode(code string) slog.Attr    { return slog.String("program_code", code) }
func Component(name string) slog.Attr      { return slog.String("component", name) }
func Operation(name string) slog.Attr      { return slog.String("operation", name) }
func Latency(d time.Duration) slog.Attr    { return slog.String("latency", d.String()) }

// Err creates an error attribute.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Any("error", nil)
	}
	return slog.String("error", err.Error())
}
