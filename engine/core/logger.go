// Package core holds the engine-wide logger and the assertion helpers used by the renderer packages.
package core

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that discards every record.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.Default())
}

// SetLogger configures the logger shared by the engine and all renderer sub-packages.
// By default the engine logs through slog.Default(). Pass nil to silence all output.
//
// Log levels used by the engine:
//   - slog.LevelDebug: GPU resource lifecycle (handle allocation, attribute layouts, uploads)
//   - slog.LevelInfo: lifecycle events (backend selected, batch renderer initialized)
//   - slog.LevelWarn: non-fatal issues (framebuffer without attachments, unknown uniforms)
//   - slog.LevelError: fatal assertions, logged right before the panic
//
// Parameters:
//   - l: the logger to install, or nil to discard all output
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current engine logger. Safe for concurrent use.
//
// Returns:
//   - *slog.Logger: the active logger
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
