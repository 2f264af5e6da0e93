package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

type LogLevel string

const (
	INFO  LogLevel = "INFO"
	ERROR LogLevel = "ERROR"
	DEBUG LogLevel = "DEBUG"
	WARN  LogLevel = "WARN"
)

type Logger struct {
	level LogLevel
	out   *log.Logger
	mu    sync.Mutex
}

// NewLogger initializes a new Logger writing to stdout with the desired log level
func NewLogger(level LogLevel) *Logger {
	return NewLoggerWithWriter(level, os.Stdout)
}

// NewLoggerWithWriter initializes a Logger that writes to w instead of stdout.
func NewLoggerWithWriter(level LogLevel, w io.Writer) *Logger {
	// No date/time prefix added automatically, logMessage stamps each line
	l := &Logger{level: level, out: log.New(w, "", 0)}
	l.Info("✅ Logger initialized successfully with level: " + string(level))
	return l
}

// ParseLevel maps a config value onto a LogLevel, falling back to INFO.
func ParseLevel(s string) LogLevel {
	switch LogLevel(strings.ToUpper(strings.TrimSpace(s))) {
	case DEBUG:
		return DEBUG
	case WARN:
		return WARN
	case ERROR:
		return ERROR
	default:
		return INFO
	}
}

// logMessage prints the log with timestamp, level, and colored output
func (l *Logger) logMessage(level LogLevel, message string) {
	// Create your own timestamp
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	// Get the colored log level
	coloredLevel := getColoredLevel(level)

	// Lines from concurrent handlers must not interleave
	l.mu.Lock()
	defer l.mu.Unlock()
	// Print the log message with formatted timestamp and level
	l.out.Printf("[%s] [%s] %s\n", timestamp, coloredLevel, message)
}

// Color mapping for different log levels
func getColoredLevel(level LogLevel) string {
	switch level {
	case INFO:
		return color.New(color.FgBlue).Sprint(string(INFO))
	case ERROR:
		return color.New(color.FgRed).Sprint(string(ERROR))
	case DEBUG:
		return color.New(color.FgCyan).Sprint(string(DEBUG))
	case WARN:
		return color.New(color.FgYellow).Sprint(string(WARN))
	default:
		return string(level)
	}
}

// Info logs an informational message
func (l *Logger) Info(msg string) {
	l.logMessage(INFO, msg)
}

// Error logs an error message
func (l *Logger) Error(msg string) {
	l.logMessage(ERROR, msg)
}

// Debug logs a debug message only if the level is DEBUG
func (l *Logger) Debug(msg string) {
	if l.level == DEBUG {
		l.logMessage(DEBUG, msg)
	}
}

// Warn logs a warning message
func (l *Logger) Warn(msg string) {
	l.logMessage(WARN, msg)
}

// Fatalf logs a fatal error message and exits the program
func (l *Logger) Fatalf(msg string, args ...interface{}) {
	// Format the message with any arguments
	message := fmt.Sprintf(msg, args...)
	// Log the fatal error
	l.logMessage(ERROR, message)
	// Exit the program after logging
	os.Exit(1)
}
