// Package debug provides debug logging functionality using log/slog
package debug

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	// logger is the global debug logger instance
	logger *slog.Logger
	// enabled indicates if debug logging is enabled
	enabled bool
	// out is where the handler writes
	out io.Writer = os.Stderr
	// mu protects the logger, output and enabled flag
	mu sync.RWMutex
)

func init() {
	Init(false)
}

// Init initializes the debug logger
// If enable is true, debug logs will be written to the configured output
// If enable is false, logs are silently discarded
func Init(enable bool) {
	mu.Lock()
	defer mu.Unlock()

	enabled = enable
	rebuild()
}

// SetOutput redirects log output. Tests use it to capture logs.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	out = w
	rebuild()
}

// rebuild must be called with mu held.
func rebuild() {
	// Above every real level, so nothing is written while disabled.
	level := slog.LevelError + 1
	if enabled {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
}

// Enabled returns whether debug logging is enabled
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	Logger().Debug(msg, args...)
}

// Info logs an info message
func Info(msg string, args ...any) {
	Logger().Info(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	Logger().Warn(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	Logger().Error(msg, args...)
}

// With returns a logger with the given attributes
func With(args ...any) *slog.Logger {
	return Logger().With(args...)
}

// Component returns a logger tagged with a component attribute.
//
// The returned logger resolves the current global logger on every call, so
// package-level component loggers follow later Init and SetOutput calls.
func Component(name string) *slog.Logger {
	return slog.New(componentHandler{name: name})
}

// Logger returns the underlying slog.Logger instance
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

type componentHandler struct {
	name string
	// wrap replays WithAttrs and WithGroup calls in order.
	wrap []func(slog.Handler) slog.Handler
}

func (h componentHandler) current() slog.Handler {
	handler := Logger().Handler().WithAttrs([]slog.Attr{slog.String("component", h.name)})
	for _, w := range h.wrap {
		handler = w(handler)
	}
	return handler
}

func (h componentHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.current().Enabled(ctx, level)
}

func (h componentHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.current().Handle(ctx, r)
}

func (h componentHandler) with(w func(slog.Handler) slog.Handler) componentHandler {
	h.wrap = append(append([]func(slog.Handler) slog.Handler(nil), h.wrap...), w)
	return h
}

func (h componentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.with(func(next slog.Handler) slog.Handler { return next.WithAttrs(attrs) })
}

func (h componentHandler) WithGroup(name string) slog.Handler {
	return h.with(func(next slog.Handler) slog.Handler { return next.WithGroup(name) })
}
