package adapter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// levelOff disables logging when set as logging.level
const levelOff = "off"

// SetupLogger opens the configured log file and returns a JSON logger writing
// to it, plus the closer for the file. An empty logging.file or the "off"
// level returns a discarding logger and a no-op closer.
func SetupLogger(cfg *LoggingConfig) (*slog.Logger, io.Closer, error) {
	level, err := parseLogLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	if cfg.File == "" || strings.EqualFold(cfg.Level, levelOff) {
		return NullLogger(), nopCloser{}, nil
	}

	logPath, err := expandHome(cfg.File)
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return newJSONLogger(logFile, level), logFile, nil
}

// StartLogger is SetupLogger for the shelf binary: logging never stops the
// program, so a failure is reported once on warn and a discarding logger is
// used instead. The returned func closes the log file.
func StartLogger(cfg *LoggingConfig, warn io.Writer) (*slog.Logger, func()) {
	logger, closer, err := SetupLogger(cfg)
	if err != nil {
		fmt.Fprintf(warn, "Warning: logging disabled: %v\n", err)
		return NullLogger(), func() {}
	}
	return logger.With("pid", os.Getpid()), func() { closer.Close() }
}

// NewLogger creates a JSON structured logger writing to w.
// Unknown levels fall back to INFO.
func NewLogger(w io.Writer, level string) *slog.Logger {
	lvl, err := parseLogLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	return newJSONLogger(w, lvl)
}

func newJSONLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// parseLogLevel accepts slog level names ("debug", "INFO+2"), "warning" and
// "off". An empty level is INFO.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "":
		return slog.LevelInfo, nil
	case "warning":
		return slog.LevelWarn, nil
	case levelOff:
		return slog.LevelError + 1, nil
	}

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return 0, fmt.Errorf("invalid logging.level %q", level)
	}
	return lvl, nil
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NullLogger returns a logger that discards all output
func NullLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
