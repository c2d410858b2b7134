// Package logging provides the structured logging infrastructure shared by
// every gridview package. It wraps zerolog with a small configuration type,
// component-tagged child loggers, and context helpers for trace IDs.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Output destinations recognized by Config.Output.
const (
	OutputStderr = "stderr"
	OutputStdout = "stdout"
	OutputFile   = "file"
)

// Log formats recognized by Config.Format.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config describes how a logger should be constructed.
type Config struct {
	// Level is the minimum level to emit ("trace".."panic"). Invalid or
	// empty values fall back to "info".
	Level string

	// Format selects console (human) or json (machine) output.
	Format string

	// Output selects the destination: stderr, stdout, or file.
	Output string

	// File is the log file path when Output is "file".
	File string

	// Caller adds the caller file:line to each event.
	Caller bool
}

// LogResult is returned by NewWithPath and reports where logs actually went,
// including whether a file destination fell back to stderr.
type LogResult struct {
	Logger       zerolog.Logger
	UsingFile    bool
	FilePath     string
	FallbackUsed bool

	fileHandle *os.File
}

// Close releases the log file handle, if any.
func (r *LogResult) Close() error {
	if r.fileHandle == nil {
		return nil
	}
	err := r.fileHandle.Close()
	r.fileHandle = nil
	return err
}

// New builds a logger from cfg, writing to stderr on any file error.
func New(cfg Config) zerolog.Logger {
	return NewWithPath(cfg).Logger
}

// NewWithPath builds a logger from cfg and reports the resolved destination.
// File destinations that cannot be opened fall back to stderr rather than
// failing; the fallback is flagged so callers can warn the user.
func NewWithPath(cfg Config) LogResult {
	lvl, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		lvl = zerolog.InfoLevel
	}

	result := LogResult{}

	var out io.Writer
	switch cfg.Output {
	case OutputFile:
		f, openErr := openLogFile(cfg.File)
		if openErr != nil {
			out = os.Stderr
			result.FallbackUsed = true
		} else {
			out = f
			result.UsingFile = true
			result.FilePath = cfg.File
			result.fileHandle = f
		}
	case OutputStdout:
		out = os.Stdout
	default:
		out = os.Stderr
	}

	if cfg.Format != FormatJSON {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(out).Level(lvl).With().Timestamp()
	if cfg.Caller {
		ctx = ctx.Caller()
	}
	result.Logger = ctx.Logger()

	return result
}

// ComponentLogger returns a child logger tagged with a component field.
// All packages use this convention so log lines can be filtered per subsystem.
func ComponentLogger(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}

// PrintLogPathMessage tells the user where file logs are being written.
func PrintLogPathMessage(w io.Writer, path string) {
	_, _ = fmt.Fprintf(w, "Logging to %s\n", path)
}

// PrintFallbackWarning warns the user that file logging fell back to stderr.
func PrintFallbackWarning(w io.Writer, path string) {
	_, _ = fmt.Fprintf(w, "Warning: could not open log file %s, logging to stderr\n", path)
}

// openLogFile opens path for appending, creating parent directories as needed.
func openLogFile(path string) (*os.File, error) {
	if path == "" {
		return nil, fmt.Errorf("log file path is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}
