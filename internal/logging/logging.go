// Package logging provides the atlas builder's leveled logger. Beyond a
// bare message it accepts structured Fields, since every call site in this
// pipeline is reporting about a specific input path, chunk count, or
// rectangle that's more useful machine-parseable than interpolated into a
// sentence.
package logging

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
)

// Level represents log severity levels.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

// Fields carries structured key-value context alongside a log message, e.g.
// the source path a document was skipped from or the rectangle count that
// failed to pack.
type Fields map[string]interface{}

// Logger provides leveled, field-structured logging.
type Logger struct {
	level  Level
	mu     sync.RWMutex
	logger *log.Logger
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// Default returns the default logger instance.
func Default() *Logger {
	once.Do(func() {
		defaultLogger = &Logger{
			level:  LevelInfo,
			logger: log.New(os.Stderr, "", log.LstdFlags|log.LUTC),
		}
	})
	return defaultLogger
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetLevelFromString sets the log level from a string.
func (l *Logger) SetLevelFromString(levelStr string) {
	switch strings.ToLower(levelStr) {
	case "debug":
		l.SetLevel(LevelDebug)
	case "info":
		l.SetLevel(LevelInfo)
	case "warn", "warning":
		l.SetLevel(LevelWarn)
	case "error":
		l.SetLevel(LevelError)
	default:
		l.SetLevel(LevelInfo)
	}
}

// GetLevel returns the current log level.
func (l *Logger) GetLevel() Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

// GetLevelString returns the current log level as a string.
func (l *Logger) GetLevelString() string {
	return levelNames[l.GetLevel()]
}

// GetLevelString returns the default logger's level as a string.
func GetLevelString() string {
	return Default().GetLevelString()
}

func (l *Logger) log(level Level, msg string, fields Fields) {
	l.mu.RLock()
	currentLevel := l.level
	l.mu.RUnlock()

	if level < currentLevel {
		return
	}

	l.logger.Printf("[%s] %s%s", levelNames[level], msg, formatFields(fields))
}

// formatFields renders fields as sorted " key=value" pairs so output stays
// diffable across runs instead of depending on map iteration order.
func formatFields(fields Fields) string {
	if len(fields) == 0 {
		return ""
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}
	return b.String()
}

// Debug logs a debug message with optional structured fields.
func (l *Logger) Debug(msg string, fields Fields) { l.log(LevelDebug, msg, fields) }

// Info logs an info message with optional structured fields.
func (l *Logger) Info(msg string, fields Fields) { l.log(LevelInfo, msg, fields) }

// Warn logs a warning message with optional structured fields.
func (l *Logger) Warn(msg string, fields Fields) { l.log(LevelWarn, msg, fields) }

// Error logs an error message with optional structured fields.
func (l *Logger) Error(msg string, fields Fields) { l.log(LevelError, msg, fields) }

// Package-level convenience functions operating on the default logger.

// SetLevel sets the default logger's level.
func SetLevel(level Level) {
	Default().SetLevel(level)
}

// SetLevelFromString sets the default logger's level from a string.
func SetLevelFromString(levelStr string) {
	Default().SetLevelFromString(levelStr)
}

// Debug logs a debug message to the default logger.
func Debug(msg string, fields Fields) {
	Default().Debug(msg, fields)
}

// Info logs an info message to the default logger.
func Info(msg string, fields Fields) {
	Default().Info(msg, fields)
}

// Warn logs a warning message to the default logger.
func Warn(msg string, fields Fields) {
	Default().Warn(msg, fields)
}

// Error logs an error message to the default logger.
func Error(msg string, fields Fields) {
	Default().Error(msg, fields)
}
