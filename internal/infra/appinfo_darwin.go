//go:build darwin

package infra

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/eliteGoblin/focusd/focus_mon/internal/domain"
)

// AppleScript snippets for the frontmost application. Title and PID are
// best effort; some processes expose no window to System Events.
const (
	frontmostNameScript  = `tell application "System Events" to get name of first application process whose frontmost is true`
	frontmostPIDScript   = `tell application "System Events" to get unix id of first application process whose frontmost is true`
	frontmostTitleScript = `tell application "System Events" to tell (first application process whose frontmost is true) to get name of front window`
)

// ActiveApp returns the frontmost application via System Events.
// An empty result means no application has focus.
func (p *SystemAppProvider) ActiveApp(ctx context.Context) (*domain.AppInfo, error) {
	out, err := p.runner.Output(ctx, "osascript", "-e", frontmostNameScript)
	if err != nil {
		return nil, fmt.Errorf("query frontmost application: %w", err)
	}

	name := strings.TrimSpace(string(out))
	if name == "" {
		return nil, nil
	}

	info := &domain.AppInfo{Name: name}
	if out, err := p.runner.Output(ctx, "osascript", "-e", frontmostPIDScript); err == nil {
		if pid, perr := strconv.Atoi(strings.TrimSpace(string(out))); perr == nil {
			info.PID = pid
		}
	}
	if out, err := p.runner.Output(ctx, "osascript", "-e", frontmostTitleScript); err == nil {
		info.Title = strings.TrimSpace(string(out))
	}
	return info, nil
}

// Support reports full capability on macOS.
func (p *SystemAppProvider) Support() domain.PlatformSupport {
	return domain.PlatformSupport{
		Supported:    true,
		ActiveWindow: true,
		ProcessList:  true,
	}
}
