package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	// LevelDebug represents debug level logging
	LevelDebug LogLevel = iota
	// LevelInfo represents informational messages
	LevelInfo
	// LevelWarn represents warning conditions
	LevelWarn
	// LevelError represents error conditions
	LevelError
	// LevelFatal represents severe error conditions that may cause the application to exit
	LevelFatal
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

func (l LogLevel) zerolog() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.FatalLevel
	}
}

// ParseLevel converts a level name such as "info" or "WARN" into a LogLevel
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "fatal":
		return LevelFatal, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level: %q", s)
	}
}

// Format selects how log lines are rendered
type Format string

const (
	// FormatConsole renders human-readable lines with a [LEVEL] marker
	FormatConsole Format = "console"
	// FormatJSON renders one JSON object per line
	FormatJSON Format = "json"
)

// Logger is the main logger type
type Logger struct {
	zl    zerolog.Logger
	level LogLevel
}

// Config holds the configuration for the logger
type Config struct {
	Level  LogLevel
	Output io.Writer
	Format Format
}

var (
	// DefaultLogger is the default logger instance
	DefaultLogger *Logger
)

func init() {
	DefaultLogger = NewLogger(Config{
		Level:  LevelInfo,
		Output: os.Stderr,
	})
}

// NewLogger creates a new logger instance. Output defaults to stderr so
// that stdout stays reserved for reports.
func NewLogger(config Config) *Logger {
	if config.Output == nil {
		config.Output = os.Stderr
	}
	out := zerolog.SyncWriter(config.Output)

	var w io.Writer = out
	if config.Format != FormatJSON {
		w = zerolog.ConsoleWriter{
			Out:        out,
			NoColor:    true,
			TimeFormat: time.RFC3339,
			FormatLevel: func(i interface{}) string {
				return fmt.Sprintf("[%s]", strings.ToUpper(fmt.Sprint(i)))
			},
		}
	}

	return &Logger{
		zl:    zerolog.New(w).With().Timestamp().Logger(),
		level: config.Level,
	}
}

// SetDefault replaces the package-level logger
func SetDefault(l *Logger) {
	if l != nil {
		DefaultLogger = l
	}
}

// SetLevel sets the log level
func (l *Logger) SetLevel(level LogLevel) {
	l.level = level
}

// GetLevel returns the current log level
func (l *Logger) GetLevel() LogLevel {
	return l.level
}

// log is the internal logging function
func (l *Logger) log(level LogLevel, format string, v ...interface{}) {
	if level < l.level {
		return
	}

	event := l.zl.WithLevel(level.zerolog())
	// 2: the caller of the exported logging function
	if _, file, line, ok := runtime.Caller(2); ok {
		event = event.Str(zerolog.CallerFieldName, fmt.Sprintf("%s:%d", filepath.Base(file), line))
	}
	event.Msgf(format, v...)

	if level == LevelFatal {
		os.Exit(1)
	}
}

// Debug logs a debug message
func (l *Logger) Debug(format string, v ...interface{}) {
	l.log(LevelDebug, format, v...)
}

// Info logs an informational message
func (l *Logger) Info(format string, v ...interface{}) {
	l.log(LevelInfo, format, v...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, v ...interface{}) {
	l.log(LevelWarn, format, v...)
}

// Error logs an error message
func (l *Logger) Error(format string, v ...interface{}) {
	l.log(LevelError, format, v...)
}

// Fatal logs a fatal error message and exits the application
func (l *Logger) Fatal(format string, v ...interface{}) {
	l.log(LevelFatal, format, v...)
}

// WithFields creates a new logger with additional structured fields
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	return &Logger{
		zl:    l.zl.With().Fields(fields).Logger(),
		level: l.level,
	}
}

// Package-level convenience functions

// Debug logs a debug message using the default logger
func Debug(format string, v ...interface{}) {
	DefaultLogger.Debug(format, v...)
}

// Info logs an informational message using the default logger
func Info(format string, v ...interface{}) {
	DefaultLogger.Info(format, v...)
}

// Warn logs a warning message using the default logger
func Warn(format string, v ...interface{}) {
	DefaultLogger.Warn(format, v...)
}

// Error logs an error message using the default logger
func Error(format string, v ...interface{}) {
	DefaultLogger.Error(format, v...)
}

// Fatal logs a fatal error message and exits the application using the default logger
func Fatal(format string, v ...interface{}) {
	DefaultLogger.Fatal(format, v...)
}

// WithFields creates a new logger with additional fields using the default logger
func WithFields(fields map[string]interface{}) *Logger {
	return DefaultLogger.WithFields(fields)
}
