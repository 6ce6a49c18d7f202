// Package logging provides structured logging using Go's slog package.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
)

var (
	// defaultLogger is the global logger instance.
	defaultLogger *slog.Logger
)

func init() {
	// Initialize with a default logger (JSON format, Info level, stderr)
	InitLogger(LevelInfo, FormatJSON, os.Stderr)
}

// Level represents a log level.
type Level int

const (
	// LevelDebug is for debug messages.
	LevelDebug Level = iota
	// LevelInfo is for informational messages.
	LevelInfo
	// LevelWarn is for warning messages.
	LevelWarn
	// LevelError is for error messages.
	LevelError
)

// Format represents a log output format.
type Format int

const (
	// FormatAuto picks FormatText on a terminal and FormatJSON otherwise.
	FormatAuto Format = iota
	// FormatJSON outputs logs in JSON format.
	FormatJSON
	// FormatText outputs logs in human-readable text format.
	FormatText
)

// ParseLevel parses a case-insensitive level name.
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// ParseFormat parses auto, json or text.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "", "auto":
		return FormatAuto, nil
	case "json":
		return FormatJSON, nil
	case "text":
		return FormatText, nil
	default:
		return FormatAuto, fmt.Errorf("unknown log format %q", name)
	}
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// InitLogger initializes the global logger with the specified level and format, writing to w.
func InitLogger(level Level, format Format, w io.Writer) {
	defaultLogger = New(level, format, w)
	slog.SetDefault(defaultLogger)
}

// New builds a logger without touching the global one.
func New(level Level, format Format, w io.Writer) *slog.Logger {
	var slogLevel slog.Level
	switch level {
	case LevelDebug:
		slogLevel = slog.LevelDebug
	case LevelInfo:
		slogLevel = slog.LevelInfo
	case LevelWarn:
		slogLevel = slog.LevelWarn
	case LevelError:
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: slogLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Customize timestamp format
			if a.Key == slog.TimeKey {
				return slog.String(slog.TimeKey, a.Value.Time().Format(time.RFC3339))
			}
			// Offsets read better in hex
			if strings.HasSuffix(a.Key, "offset") || a.Key == "root" {
				if v, ok := a.Value.Any().(uint64); ok {
					return slog.String(a.Key, fmt.Sprintf("0x%x", v))
				}
			}

			return a
		},
	}

	if format == FormatAuto {
		format = FormatJSON
		if IsTerminal(w) {
			format = FormatText
		}
	}

	var handler slog.Handler
	if format == FormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// GetLogger returns the global logger instance.
func GetLogger() *slog.Logger {
	return defaultLogger
}

// Helper functions for common logging patterns

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) {
	defaultLogger.Debug(msg, args...)
}

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) {
	defaultLogger.Info(msg, args...)
}

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) {
	defaultLogger.Warn(msg, args...)
}

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) {
	defaultLogger.Error(msg, args...)
}

// WalkFinished logs the outcome of one root walk.
func WalkFinished(label string, root uint64, tables, visited, diagnostics int, args ...any) {
	allArgs := []any{
		"label", label,
		"root", root,
		"tables", tables,
		"visited", visited,
		"diagnostics", diagnostics,
	}
	allArgs = append(allArgs, args...)
	defaultLogger.Info("walk_finished", allArgs...)
}

// ArtifactWritten logs one report artifact written to disk.
func ArtifactWritten(path string, size int64, args ...any) {
	allArgs := []any{
		"path", path,
		"bytes", size,
	}
	allArgs = append(allArgs, args...)
	defaultLogger.Info("artifact_written", allArgs...)
}
