// ABOUTME: Leveled key-value logging wrapper around charmbracelet/log
// ABOUTME: Global debug toggle via SetDebug; writes to stderr, stdout stays clean for command output

package log

import (
	"io"
	"os"

	clog "github.com/charmbracelet/log"
)

var logger = clog.NewWithOptions(os.Stderr, clog.Options{
	ReportTimestamp: false,
	Level:           clog.InfoLevel,
})

// SetDebug switches between Info (default) and Debug verbosity.
func SetDebug(on bool) {
	if on {
		logger.SetLevel(clog.DebugLevel)
	} else {
		logger.SetLevel(clog.InfoLevel)
	}
}

// IsDebug reports whether debug logging is enabled.
func IsDebug() bool {
	return logger.GetLevel() <= clog.DebugLevel
}

// SetOutput redirects log output. Used by tests to capture messages.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, keyvals ...any) {
	logger.Debug(msg, keyvals...)
}

// Info logs an info message with optional key-value pairs.
func Info(msg string, keyvals ...any) {
	logger.Info(msg, keyvals...)
}

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, keyvals ...any) {
	logger.Warn(msg, keyvals...)
}

// Error logs an error message with optional key-value pairs.
func Error(msg string, keyvals ...any) {
	logger.Error(msg, keyvals...)
}
