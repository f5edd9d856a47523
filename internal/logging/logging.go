// Package logging provides the leveled, component-scoped logger used across
// Trowel. It is a thin layer over logrus that keeps printf-style call sites.
package logging

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// Level represents the severity level of a log message.
type Level int

const (
	// LevelDebug is for detailed debugging information.
	LevelDebug Level = iota
	// LevelInfo is for general informational messages.
	LevelInfo
	// LevelWarn is for warning messages.
	LevelWarn
	// LevelError is for error messages.
	LevelError
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) logrusLevel() logrus.Level {
	switch l {
	case LevelDebug:
		return logrus.DebugLevel
	case LevelWarn:
		return logrus.WarnLevel
	case LevelError:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// ParseLevel parses a string into a Level. Unknown input maps to LevelInfo.
func ParseLevel(s string) Level {
	switch s {
	case "debug", "DEBUG":
		return LevelDebug
	case "info", "INFO":
		return LevelInfo
	case "warn", "WARN", "warning", "WARNING":
		return LevelWarn
	case "error", "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// Config configures a Logger.
type Config struct {
	// Level is the minimum log level to output.
	Level Level
	// Output is where logs are written. Defaults to os.Stderr.
	Output io.Writer
	// Prefix is attached to every entry as the "app" field.
	Prefix string
}

// DefaultConfig returns the default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Output: os.Stderr,
		Prefix: "trowel",
	}
}

// Logger writes leveled, structured entries.
// Derived loggers share the underlying logrus logger.
type Logger struct {
	entry    *logrus.Entry
	disabled bool
}

// New creates a new logger with the given configuration.
func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	base := logrus.New()
	base.SetOutput(cfg.Output)
	base.SetLevel(cfg.Level.logrusLevel())
	base.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05.000",
	})

	entry := logrus.NewEntry(base)
	if cfg.Prefix != "" {
		entry = entry.WithField("app", cfg.Prefix)
	}
	return &Logger{entry: entry}
}

// FromLogrus wraps an existing logrus logger.
func FromLogrus(l *logrus.Logger) *Logger {
	return &Logger{entry: logrus.NewEntry(l)}
}

// WithField returns a new logger with the given field added.
func (l *Logger) WithField(key string, value any) *Logger {
	if l.entry == nil {
		return l
	}
	return &Logger{entry: l.entry.WithField(key, value), disabled: l.disabled}
}

// WithFields returns a new logger with the given fields added.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	if l.entry == nil {
		return l
	}
	return &Logger{entry: l.entry.WithFields(logrus.Fields(fields)), disabled: l.disabled}
}

// WithComponent returns a new logger with the component field set.
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithField("component", component)
}

// WithError returns a new logger carrying err in the "error" field.
func (l *Logger) WithError(err error) *Logger {
	if l.entry == nil {
		return l
	}
	return &Logger{entry: l.entry.WithError(err), disabled: l.disabled}
}

// SetLevel sets the minimum log level. It affects every logger derived
// from the same root.
func (l *Logger) SetLevel(level Level) {
	if l.entry == nil {
		return
	}
	l.entry.Logger.SetLevel(level.logrusLevel())
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...any) {
	if l.enabled() {
		l.entry.Debugf(msg, args...)
	}
}

// Info logs an info message.
func (l *Logger) Info(msg string, args ...any) {
	if l.enabled() {
		l.entry.Infof(msg, args...)
	}
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...any) {
	if l.enabled() {
		l.entry.Warnf(msg, args...)
	}
}

// Error logs an error message.
func (l *Logger) Error(msg string, args ...any) {
	if l.enabled() {
		l.entry.Errorf(msg, args...)
	}
}

func (l *Logger) enabled() bool {
	return l != nil && !l.disabled && l.entry != nil
}

// NullLogger is a logger that discards all output.
var NullLogger = &Logger{disabled: true}

var (
	defaultLogger     *Logger
	defaultLoggerOnce sync.Once
	defaultLoggerMu   sync.RWMutex
)

// Default returns the process logger, creating it on first use.
func Default() *Logger {
	defaultLoggerOnce.Do(func() {
		defaultLoggerMu.Lock()
		if defaultLogger == nil {
			defaultLogger = New(DefaultConfig())
		}
		defaultLoggerMu.Unlock()
	})

	defaultLoggerMu.RLock()
	defer defaultLoggerMu.RUnlock()
	return defaultLogger
}

// SetDefault replaces the process logger.
// Should be called early in startup.
func SetDefault(l *Logger) {
	defaultLoggerOnce.Do(func() {})
	defaultLoggerMu.Lock()
	defer defaultLoggerMu.Unlock()
	defaultLogger = l
}
