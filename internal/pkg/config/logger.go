package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// LoggerOptions slog setup
type LoggerOptions struct {
	Level     string
	Path      string // empty: stderr
	Component string
}

// SetupLogger installs the default slog logger. Logs go to stderr so stdout stays free
// for command output. When Path is set, logs are appended to that file instead and the
// returned Closer must be closed at shutdown.
func SetupLogger(opts LoggerOptions) (io.Closer, error) {
	var (
		w      io.Writer = os.Stderr
		closer io.Closer
	)
	if opts.Path != "" {
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		w, closer = f, f
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(opts.Level)})
	logger := slog.New(handler)
	if opts.Component != "" {
		logger = logger.With("component", opts.Component)
	}
	slog.SetDefault(logger)
	return closer, nil
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
