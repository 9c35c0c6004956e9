package infra

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/eliteGoblin/focusd/focus_mon/internal/domain"
)

const notifyTimeout = 5 * time.Second

// DesktopNotifier implements domain.Notifier via osascript on macOS and
// notify-send on Linux.
type DesktopNotifier struct {
	runner CommandRunner
}

// NewDesktopNotifier creates a notifier backed by real system commands.
func NewDesktopNotifier() *DesktopNotifier {
	return &DesktopNotifier{runner: &RealCommandRunner{}}
}

// NewDesktopNotifierWithRunner creates a notifier with an injectable
// command runner (for testing).
func NewDesktopNotifierWithRunner(runner CommandRunner) *DesktopNotifier {
	return &DesktopNotifier{runner: runner}
}

// Notify raises a desktop notification.
func (n *DesktopNotifier) Notify(title, message string) error {
	name, args, err := notifyCommand(runtime.GOOS, title, message)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()
	return n.runner.Run(ctx, name, args...)
}

// notifyCommand returns the platform notification command.
func notifyCommand(goos, title, message string) (string, []string, error) {
	switch goos {
	case "darwin":
		script := fmt.Sprintf("display notification %q with title %q", message, title)
		return "osascript", []string{"-e", script}, nil
	case "linux":
		return "notify-send", []string{title, message}, nil
	default:
		return "", nil, fmt.Errorf("notifications not supported on %s", goos)
	}
}

// Ensure DesktopNotifier implements domain.Notifier.
var _ domain.Notifier = (*DesktopNotifier)(nil)
