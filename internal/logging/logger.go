// Package logging provides the leveled, optionally colored console logger
// with an optional plain-text file sink. Level prefixes ([INFO], [SUCCESS],
// [WARNING], [ERROR]) are part of the tool's stable output format.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/kadykov/audiobook-opus-converter/internal/config"
)

// Level sprint functions. Bound once in NewLogger; color.NoColor makes them
// plain passthroughs when colors are disabled.
var (
	blue   = color.New(color.FgBlue).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgHiYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
)

// Logger provides leveled, optionally colored logging with an optional file
// sink. Safe for concurrent use by pipeline workers.
type Logger struct {
	mu      sync.Mutex
	verbose bool
	file    *os.File
}

// NewLogger resolves the color mode and optionally opens cfg.LogFile.
// Call Close when done if LogFile was set.
func NewLogger(cfg *config.Config) (*Logger, error) {
	color.NoColor = !colorsEnabled(cfg.ColorMode)

	l := &Logger{verbose: cfg.Verbose}
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		l.file = f
	}
	return l, nil
}

// colorsEnabled resolves the configured mode against TTY detection and the
// NO_COLOR env var (https://no-color.org).
func colorsEnabled(mode config.ColorMode) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default: // config.ColorAuto
		return isatty.IsTerminal(os.Stdout.Fd()) &&
			os.Getenv("NO_COLOR") == "" &&
			strings.ToLower(os.Getenv("TERM")) != "dumb"
	}
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

func (l *Logger) line(level string, paint func(...interface{}) string, text string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := os.Stdout
	if level == "ERROR" {
		out = os.Stderr
	}
	fmt.Fprintf(out, "%s %s\n", paint("["+level+"]"), text)

	if l.file != nil {
		ts := time.Now().Format("2006-01-02 15:04:05")
		_, _ = io.WriteString(l.file, ts+" ["+level+"] "+text+"\n")
	}
}

// Info logs at INFO level (blue).
func (l *Logger) Info(format string, args ...interface{}) {
	l.line("INFO", blue, fmt.Sprintf(format, args...))
}

// Success logs at SUCCESS level (green).
func (l *Logger) Success(format string, args ...interface{}) {
	l.line("SUCCESS", green, fmt.Sprintf(format, args...))
}

// Warn logs at WARNING level (yellow).
func (l *Logger) Warn(format string, args ...interface{}) {
	l.line("WARNING", yellow, fmt.Sprintf(format, args...))
}

// Error logs at ERROR level (red), directed to stderr.
func (l *Logger) Error(format string, args ...interface{}) {
	l.line("ERROR", red, fmt.Sprintf(format, args...))
}

// Debug logs at DEBUG level (cyan) only when verbose mode is enabled.
func (l *Logger) Debug(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	l.line("DEBUG", cyan, fmt.Sprintf(format, args...))
}
