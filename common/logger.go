package common

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that discards every record.
// Enabled reports false so callers skip formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// NewNopLogger creates a logger that silently discards all output.
//
// Returns:
//   - *slog.Logger: a logger backed by a handler that is never enabled
func NewNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(NewNopLogger())
}

// SetLogger sets the process-wide default logger used by every package that was not handed
// an explicit logger through its options. By default nothing is logged.
// Pass nil to restore the silent default.
//
// Log levels used across the module:
//   - slog.LevelDebug: descriptor details, per-frame diagnostics
//   - slog.LevelInfo: adapter selection, surface configuration, frame statistics, shader reloads
//   - slog.LevelWarn: surface recovery attempts, unsupported optional settings
//   - slog.LevelError: fatal display errors surfaced to the driver
//
// Parameters:
//   - l: the logger to install, or nil to disable logging
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = NewNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current process-wide default logger. Safe for concurrent use.
//
// Returns:
//   - *slog.Logger: the installed logger, never nil
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// LoggerOrDefault returns l when it is non-nil, otherwise the process-wide default logger.
//
// Parameters:
//   - l: an injected logger, may be nil
//
// Returns:
//   - *slog.Logger: the logger to use
func LoggerOrDefault(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return Logger()
}
