// Package observability constructs the structured logger used across the
// server. Logs always go to stderr: stdout carries the MCP protocol stream
// and must stay clean.
package observability

import (
	"context"
	"io"
	"os"

	"github.com/felixgeelhaar/bolt"
)

// LogConfig contains logger configuration.
type LogConfig struct {
	Level  string
	Format string // "json" or "console"
	Output io.Writer
}

// DefaultConfig returns the default logger configuration.
func DefaultConfig() LogConfig {
	return LogConfig{
		Level:  "info",
		Format: "json",
		Output: os.Stderr,
	}
}

// DevConfig returns a development logger configuration.
func DevConfig() LogConfig {
	return LogConfig{
		Level:  "debug",
		Format: "console",
		Output: os.Stderr,
	}
}

// NewLogger creates a new bolt logger with the given configuration.
func NewLogger(cfg LogConfig) *bolt.Logger {
	var handler bolt.Handler

	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	switch cfg.Format {
	case "console":
		handler = bolt.NewConsoleHandler(cfg.Output)
	default:
		handler = bolt.NewJSONHandler(cfg.Output)
	}

	logger := bolt.New(handler)

	switch cfg.Level {
	case "trace":
		logger = logger.SetLevel(bolt.TRACE)
	case "debug":
		logger = logger.SetLevel(bolt.DEBUG)
	case "warn", "warning":
		logger = logger.SetLevel(bolt.WARN)
	case "error":
		logger = logger.SetLevel(bolt.ERROR)
	case "fatal":
		logger = logger.SetLevel(bolt.FATAL)
	default:
		logger = logger.SetLevel(bolt.INFO)
	}

	return logger
}

// NewDefaultLogger creates a logger with default configuration.
func NewDefaultLogger() *bolt.Logger {
	return NewLogger(DefaultConfig())
}

// NewDevLogger creates a logger for development.
func NewDevLogger() *bolt.Logger {
	return NewLogger(DevConfig())
}

// contextKey is the key for storing logger in context.
type contextKey struct{}

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger *bolt.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext retrieves the logger from context.
// Returns a default logger if none is found.
func FromContext(ctx context.Context) *bolt.Logger {
	if logger, ok := ctx.Value(contextKey{}).(*bolt.Logger); ok {
		return logger
	}
	return NewDefaultLogger()
}

// NewServerLogger creates a logger carrying the server identity fields.
func NewServerLogger(cfg LogConfig, name, version string) *bolt.Logger {
	logger := NewLogger(cfg)

	return logger.With().
		Str("server", name).
		Str("version", version).
		Logger()
}

// WithToolContext adds tool invocation fields to the logger.
func WithToolContext(logger *bolt.Logger, toolName string) *bolt.Logger {
	return logger.With().
		Str("tool", toolName).
		Logger()
}

// WithSessionContext adds session fields to the logger.
func WithSessionContext(logger *bolt.Logger, sessionID, kind string) *bolt.Logger {
	return logger.With().
		Str("session_id", sessionID).
		Str("session_kind", kind).
		Logger()
}
