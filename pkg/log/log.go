// Package log provides structured logging for bee2go. It wraps Go's
// log/slog with conveniences for per-module child loggers, since the core
// is organized as a stack of leaf packages (word, ww, zz, pp, ecp, ...) that
// each want their own logging context without threading a logger through
// every call.
package log

import (
	"log/slog"
	"os"
	"time"

	"github.com/agievich/bee2go/internal/bee2err"
)

// Logger wraps slog.Logger with bee2go's module-tagging convention.
type Logger struct {
	inner *slog.Logger
}

// defaultLogger is the process-wide logger used by the package-level
// convenience functions.
var defaultLogger *Logger

func init() {
	defaultLogger = New(slog.LevelInfo)
}

// New creates a Logger that writes JSON to stderr at the given level.
func New(level slog.Level) *Logger {
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{inner: slog.New(h)}
}

// NewWithHandler creates a Logger backed by the supplied slog.Handler. Used
// by tests to capture output instead of writing to stderr.
func NewWithHandler(h slog.Handler) *Logger {
	return &Logger{inner: slog.New(h)}
}

// SetDefault replaces the package-level default logger.
func SetDefault(l *Logger) {
	if l != nil {
		defaultLogger = l
	}
}

// Default returns the current package-level default logger.
func Default() *Logger {
	return defaultLogger
}

// Module returns a child logger tagged with the originating subsystem, e.g.
// "ecp", "cvc", "sig".
func (l *Logger) Module(name string) *Logger {
	return &Logger{inner: l.inner.With("module", name)}
}

// With returns a child logger with additional key-value context.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{inner: l.inner.With(args...)}
}

// WithCode tags the child logger with the bee2err taxonomy code a
// subsystem reports its failures under, so a single log line carries the
// module name and error class together instead of the caller repeating
// "code" at every call site.
func (l *Logger) WithCode(code bee2err.Code) *Logger {
	return &Logger{inner: l.inner.With("code", code.String())}
}

// Debug logs at LevelDebug.
func (l *Logger) Debug(msg string, args ...any) { l.inner.Debug(msg, args...) }

// Info logs at LevelInfo.
func (l *Logger) Info(msg string, args ...any) { l.inner.Info(msg, args...) }

// Warn logs at LevelWarn.
func (l *Logger) Warn(msg string, args ...any) { l.inner.Warn(msg, args...) }

// Error logs at LevelError.
func (l *Logger) Error(msg string, args ...any) { l.inner.Error(msg, args...) }

// Timed runs fn, then logs msg at Info (or Error if fn failed) with an
// "elapsed" attribute, returning fn's error unchanged so callers can wrap a
// sign/verify step inline: return logger.Timed("sign", func() error {...}).
func (l *Logger) Timed(msg string, fn func() error) error {
	start := time.Now()
	err := fn()
	if err != nil {
		l.inner.Error(msg, "elapsed", time.Since(start), "err", err)
		return err
	}
	l.inner.Info(msg, "elapsed", time.Since(start))
	return err
}

// dispatch routes msg to the default logger at the given level, the one
// implementation the four package-level convenience functions below share.
func dispatch(level slog.Level, msg string, args ...any) {
	switch level {
	case slog.LevelDebug:
		defaultLogger.Debug(msg, args...)
	case slog.LevelWarn:
		defaultLogger.Warn(msg, args...)
	case slog.LevelError:
		defaultLogger.Error(msg, args...)
	default:
		defaultLogger.Info(msg, args...)
	}
}

// Debug logs at LevelDebug using the default logger.
func Debug(msg string, args ...any) { dispatch(slog.LevelDebug, msg, args...) }

// Info logs at LevelInfo using the default logger.
func Info(msg string, args ...any) { dispatch(slog.LevelInfo, msg, args...) }

// Warn logs at LevelWarn using the default logger.
func Warn(msg string, args ...any) { dispatch(slog.LevelWarn, msg, args...) }

// Error logs at LevelError using the default logger.
func Error(msg string, args ...any) { dispatch(slog.LevelError, msg, args...) }
