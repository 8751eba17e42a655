package adapter

import (
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
)

// Launcher opens product image URLs in an external viewer
type Launcher struct {
	command string   // configured viewer command, empty for system default
	args    []string // additional arguments for the viewer
	goos    string
	logger  *slog.Logger
}

// NewLauncher creates a new Launcher; an empty command uses the system default
func NewLauncher(cfg ViewerConfig, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command: cfg.Command,
		args:    cfg.Args,
		goos:    runtime.GOOS,
		logger:  logger,
	}
}

// Launch opens url without waiting for the viewer to exit
func (l *Launcher) Launch(url string) error {
	if url == "" {
		return errors.New("product has no image")
	}

	name, args := l.commandLine(url)

	// Check if command exists in PATH
	if _, err := exec.LookPath(name); err != nil {
		return fmt.Errorf("viewer %q not found: %w", name, err)
	}

	l.logger.Info("launching viewer", "command", name, "args", args)
	if err := exec.Command(name, args...).Start(); err != nil {
		return fmt.Errorf("failed to launch viewer: %w", err)
	}
	return nil
}

// commandLine returns the command and arguments that open url.
// The URL always goes last.
func (l *Launcher) commandLine(url string) (string, []string) {
	if l.command != "" {
		args := append(append([]string{}, l.args...), url)
		return l.command, args
	}

	// System default handler
	switch l.goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "cmd", []string{"/c", "start", "", url}
	default:
		// Linux and other Unix-like systems
		return "xdg-open", []string{url}
	}
}
