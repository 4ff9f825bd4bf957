package logx

import (
	"fmt"
	"log"
	"os"
	"sync/atomic"
)

// Level controls which messages are written.
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var currentLevel atomic.Int32

var std = log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds)

func init() {
	currentLevel.Store(int32(LevelInfo))
}

// SetLevel sets the minimum level that will be logged.
func SetLevel(l Level) {
	currentLevel.Store(int32(l))
}

// ParseLevel maps a string like "debug" or "INFO" to a Level.
// Unknown values fall back to LevelInfo.
func ParseLevel(s string) Level {
	switch s {
	case "debug", "DEBUG":
		return LevelDebug
	case "warn", "WARN", "warning", "WARNING":
		return LevelWarn
	case "error", "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

func enabled(l Level) bool {
	return int32(l) >= currentLevel.Load()
}

func output(prefix, msg string) {
	std.Output(3, prefix+" "+msg)
}

// Debug logs a message at debug level.
func Debug(args ...any) {
	if enabled(LevelDebug) {
		output("[DEBUG]", fmt.Sprint(args...))
	}
}

// Debugf logs a formatted message at debug level.
func Debugf(format string, args ...any) {
	if enabled(LevelDebug) {
		output("[DEBUG]", fmt.Sprintf(format, args...))
	}
}

// Info logs a message at info level.
func Info(args ...any) {
	if enabled(LevelInfo) {
		output("[INFO]", fmt.Sprint(args...))
	}
}

// Infof logs a formatted message at info level.
func Infof(format string, args ...any) {
	if enabled(LevelInfo) {
		output("[INFO]", fmt.Sprintf(format, args...))
	}
}

// Warn logs a message at warn level.
func Warn(args ...any) {
	if enabled(LevelWarn) {
		output("[WARN]", fmt.Sprint(args...))
	}
}

// Warnf logs a formatted message at warn level.
func Warnf(format string, args ...any) {
	if enabled(LevelWarn) {
		output("[WARN]", fmt.Sprintf(format, args...))
	}
}

// Error logs a message at error level.
func Error(args ...any) {
	if enabled(LevelError) {
		output("[ERROR]", fmt.Sprint(args...))
	}
}

// Errorf logs a formatted message at error level.
func Errorf(format string, args ...any) {
	if enabled(LevelError) {
		output("[ERROR]", fmt.Sprintf(format, args...))
	}
}

// Fatal logs a message and exits the process.
func Fatal(args ...any) {
	output("[FATAL]", fmt.Sprint(args...))
	os.Exit(1)
}

// Fatalf logs a formatted message and exits the process.
func Fatalf(format string, args ...any) {
	output("[FATAL]", fmt.Sprintf(format, args...))
	os.Exit(1)
}
