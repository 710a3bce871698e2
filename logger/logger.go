package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

// Level represents the severity level of a log entry
type Level int

const (
	// DEBUG level for detailed debugging information
	DEBUG Level = iota
	// INFO level for general information
	INFO
	// WARN level for warning messages
	WARN
	// ERROR level for error messages
	ERROR
	// FATAL level for fatal errors that cause program exit
	FATAL
)

// String returns the string representation of the log level
func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// Logger is a leveled logger. It is constructed once in main and passed to
// each component; there is no package-level default instance.
type Logger struct {
	level  Level
	logger *log.Logger
}

// Config holds the configuration for the logger
type Config struct {
	Level  Level
	Output io.Writer
}

// New creates a new logger with the given configuration
func New(config Config) *Logger {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	return &Logger{
		level:  config.Level,
		logger: log.New(config.Output, "", 0),
	}
}

// NewDefault creates an INFO-level logger writing to stdout
func NewDefault() *Logger {
	return New(Config{Level: INFO, Output: os.Stdout})
}

// SetLevel sets the minimum log level
func (l *Logger) SetLevel(level Level) {
	l.level = level
}

func (l *Logger) log(level Level, message string, args ...interface{}) {
	if level < l.level {
		return
	}

	formattedMessage := message
	if len(args) > 0 {
		formattedMessage = fmt.Sprintf(message, args...)
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	l.logger.Printf("[%s] %s %s", timestamp, level.String(), formattedMessage)

	if level == FATAL {
		os.Exit(1)
	}
}

// Debug logs a debug message
func (l *Logger) Debug(message string, args ...interface{}) {
	l.log(DEBUG, message, args...)
}

// Info logs an info message
func (l *Logger) Info(message string, args ...interface{}) {
	l.log(INFO, message, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(message string, args ...interface{}) {
	l.log(WARN, message, args...)
}

// Error logs an error message
func (l *Logger) Error(message string, args ...interface{}) {
	l.log(ERROR, message, args...)
}

// Fatal logs a fatal message and exits the program
func (l *Logger) Fatal(message string, args ...interface{}) {
	l.log(FATAL, message, args...)
}
