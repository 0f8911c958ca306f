// Package logging holds the logger shared by the editor core.
//
// By default nothing is logged. The terminal owns stdout while the editor runs,
// so the host installs a file-backed logger with SetLogger when debugging.
package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record. Enabled reports false so callers skip
// formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger replaces the core logger. Pass nil to restore silence.
//
// Levels used:
//   - [slog.LevelDebug]: commits, evictions, gesture begin/end
//   - [slog.LevelWarn]: rejected input such as a pointer-down during a gesture
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current core logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
