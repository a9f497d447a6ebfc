// Package logger provides leveled logging for sercha-federated.
// Debug, Info and Section output is printed only in verbose mode (--verbose);
// warnings and errors are always printed. Output is plain text by default
// or JSON lines through log/slog when the format is set to "json".
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

var (
	mu      sync.RWMutex
	verbose bool
	format  = FormatText
	output  io.Writer = os.Stderr
	jsonLog = newJSONLogger(os.Stderr)
)

func newJSONLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	jsonLog = newJSONLogger(w)
}

// SetFormat selects FormatText or FormatJSON. Unknown values fall back to text.
func SetFormat(f string) {
	mu.Lock()
	defer mu.Unlock()
	if f == FormatJSON {
		format = FormatJSON
		return
	}
	format = FormatText
}

// Debug prints a message if verbose mode is enabled.
func Debug(msg string, args ...any) {
	emit(slog.LevelDebug, "DEBUG", true, msg, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(msg string, args ...any) {
	emit(slog.LevelInfo, "INFO", true, msg, args...)
}

// Warn prints a warning message.
func Warn(msg string, args ...any) {
	emit(slog.LevelWarn, "WARN", false, msg, args...)
}

// Error prints an error message.
func Error(msg string, args ...any) {
	emit(slog.LevelError, "ERROR", false, msg, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose {
		return
	}
	if format == FormatJSON {
		jsonLog.Info(name, slog.Bool("section", true))
		return
	}
	fmt.Fprintf(output, "\n=== %s ===\n", name)
}

func emit(level slog.Level, tag string, verboseOnly bool, msg string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verboseOnly && !verbose {
		return
	}
	if format == FormatJSON {
		jsonLog.Log(context.Background(), level, fmt.Sprintf(msg, args...))
		return
	}
	fmt.Fprintf(output, "["+tag+"] "+msg+"\n", args...)
}
