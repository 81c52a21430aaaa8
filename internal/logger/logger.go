// Package logger provides a simple leveled logger for the application.
// It supports three levels: off (no output), normal (info/warn/error),
// and verbose (includes debug). Output goes through log/slog with a tint
// handler. The logger is safe for concurrent use.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/lmittmann/tint"
)

// Level controls the verbosity of the logger.
type Level int

const (
	// LevelOff disables all log output.
	LevelOff Level = iota
	// LevelNormal enables info, warn, and error output.
	LevelNormal
	// LevelVerbose enables all output including debug.
	LevelVerbose
)

// String returns the config spelling of the level.
func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelVerbose:
		return "debug"
	default:
		return "info"
	}
}

// ParseLevel maps a config value ("off", "info", "debug", ...) to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "quiet", "none":
		return LevelOff, nil
	case "", "info", "normal", "warn", "error":
		return LevelNormal, nil
	case "debug", "verbose":
		return LevelVerbose, nil
	}
	return LevelNormal, fmt.Errorf("unknown log level %q", s)
}

// Logger is a leveled logger. All methods are safe for concurrent use.
type Logger struct {
	mu     sync.RWMutex
	level  Level
	slevel *slog.LevelVar
	sl     *slog.Logger
}

// New creates a logger with the given level, writing to the given output.
// If out is nil, os.Stderr is used.
func New(level Level, out io.Writer) *Logger {
	if out == nil {
		out = os.Stderr
	}

	lv := new(slog.LevelVar)
	h := tint.NewHandler(out, &tint.Options{
		Level:      lv,
		TimeFormat: time.TimeOnly,
		NoColor:    !isTerminal(out),
	})

	l := &Logger{slevel: lv, sl: slog.New(h)}
	l.SetLevel(level)
	return l
}

// Nop returns a logger that discards everything. Handy in tests.
func Nop() *Logger {
	return New(LevelOff, io.Discard)
}

// SetLevel changes the log level at runtime.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
	if level >= LevelVerbose {
		l.slevel.Set(slog.LevelDebug)
	} else {
		l.slevel.Set(slog.LevelInfo)
	}
}

// GetLevel returns the current log level.
func (l *Logger) GetLevel() Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

// Slog exposes the underlying structured logger for code that logs key/value
// attributes (the HTTP middleware). It honours LevelOff.
func (l *Logger) Slog() *slog.Logger {
	if l.GetLevel() == LevelOff {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return l.sl
}

// Debug logs a message at debug level (only visible in verbose mode).
func (l *Logger) Debug(format string, args ...any) {
	l.log(LevelVerbose, slog.LevelDebug, format, args...)
}

// Info logs a message at info level.
func (l *Logger) Info(format string, args ...any) {
	l.log(LevelNormal, slog.LevelInfo, format, args...)
}

// Warn logs a message at warn level.
func (l *Logger) Warn(format string, args ...any) {
	l.log(LevelNormal, slog.LevelWarn, format, args...)
}

// Error logs a message at error level.
func (l *Logger) Error(format string, args ...any) {
	l.log(LevelNormal, slog.LevelError, format, args...)
}

func (l *Logger) log(floor Level, sl slog.Level, format string, args ...any) {
	if l.GetLevel() < floor {
		return
	}
	l.sl.Log(context.Background(), sl, fmt.Sprintf(format, args...))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}
