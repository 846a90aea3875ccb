package adapter

import (
	"fmt"
	"log/slog"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// Launcher opens links (news articles, cover art) outside the terminal
type Launcher struct {
	command string // configured browser command, empty for system default
	logger  *slog.Logger

	// start runs the command without waiting; replaced in tests
	start func(name string, args ...string) error
}

// NewLauncher creates a launcher for the configured browser command.
// command may carry arguments, e.g. "firefox --new-tab".
func NewLauncher(command string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command: strings.TrimSpace(command),
		logger:  logger,
		start:   startCommand,
	}
}

func startCommand(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Launch opens link in the configured browser or system default
func (l *Launcher) Launch(link string) error {
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("not a web link: %q", link)
	}

	name, args := l.commandLine()
	args = append(args, u.String())

	l.logger.Info("opening link", "command", name, "url", link)
	if err := l.start(name, args...); err != nil {
		l.logger.Error("failed to open link", "command", name, "error", err)
		return fmt.Errorf("failed to open link: %w", err)
	}
	return nil
}

// commandLine returns the program and leading arguments to run
func (l *Launcher) commandLine() (string, []string) {
	if l.command != "" {
		fields := strings.Fields(l.command)
		return fields[0], fields[1:]
	}

	switch runtime.GOOS {
	case "darwin":
		return "open", nil
	case "windows":
		return "cmd", []string{"/c", "start", ""}
	default:
		// Linux and other Unix-like systems
		return "xdg-open", nil
	}
}
