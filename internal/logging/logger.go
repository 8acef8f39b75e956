package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"ytsync/internal/config"
)

// Options describes logger construction parameters.
type Options struct {
	Level  string
	Format string
	// FilePath, when set, receives a copy of every record in addition to
	// Stdout output.
	FilePath string
	// Stdout overrides the standard output writer (used in tests).
	Stdout io.Writer
	// ForceColor enables ANSI color regardless of TTY detection.
	ForceColor bool
}

// New constructs a slog logger using the provided options.
func New(opts Options) (*slog.Logger, error) {
	level := parseLevel(opts.Level)
	levelVar := new(slog.LevelVar)
	levelVar.Set(level)

	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "console"
	}

	primary, err := newHandler(format, stdout, levelVar, opts.ForceColor || writerIsTerminal(stdout))
	if err != nil {
		return nil, err
	}

	handlers := []slog.Handler{primary}
	if strings.TrimSpace(opts.FilePath) != "" {
		file, err := os.OpenFile(opts.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		fileHandler, err := newHandler(format, file, levelVar, false)
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, fileHandler)
	}

	if len(handlers) == 1 {
		return slog.New(handlers[0]), nil
	}
	return slog.New(newFanoutHandler(handlers...)), nil
}

// NewFromConfig creates a logger using application config values.
func NewFromConfig(cfg *config.Config) (*slog.Logger, error) {
	if cfg == nil {
		return New(Options{})
	}
	return New(Options{
		Level:    cfg.Logging.Level,
		Format:   cfg.Logging.Format,
		FilePath: cfg.Paths.LogFile,
	})
}

func newHandler(format string, w io.Writer, level *slog.LevelVar, color bool) (slog.Handler, error) {
	switch format {
	case "json":
		return newJSONHandler(w, level), nil
	case "console":
		return newConsoleHandler(w, level, color), nil
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", format)
	}
}

func parseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func writerIsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}
