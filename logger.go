package testfs

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with testfs-specific helpers.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely; it is the default for new test
// file systems.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithPath adds a path field to the logger.
func (l *Logger) WithPath(path string) *Logger {
	return &Logger{
		Logger: l.Logger.With("path", path),
	}
}

// LogResolve logs the outcome of a resolved operation. Only simulated
// conditions are logged; pass-through successes stay silent.
func (l *Logger) LogResolve(op, path string, err error) {
	if err != nil {
		l.Debug("override blocked operation",
			"op", op,
			"path", path,
			"error", err,
		)
	}
}

// LogRedirect logs a redirect substitution on a content open.
func (l *Logger) LogRedirect(op, path, target string) {
	l.Debug("redirecting content access",
		"op", op,
		"path", path,
		"target", target,
	)
}

// LogCreate logs the construction of a test file system.
func (l *Logger) LogCreate(base string, overrides int) {
	l.Debug("test file system created",
		"base", base,
		"overrides", overrides,
	)
}
