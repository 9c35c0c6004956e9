//go:build linux

package infra

import (
	"context"
	"fmt"
	"os"

	"github.com/eliteGoblin/focusd/focus_mon/internal/domain"
)

// ActiveApp returns the focused X11 window's application via xprop.
// A root query reporting no active window yields nil without error.
func (p *SystemAppProvider) ActiveApp(ctx context.Context) (*domain.AppInfo, error) {
	out, err := p.runner.Output(ctx, "xprop", "-root", "_NET_ACTIVE_WINDOW")
	if err != nil {
		return nil, fmt.Errorf("query active window: %w", err)
	}

	windowID := parseActiveWindowID(string(out))
	if windowID == "" {
		return nil, nil
	}

	out, err = p.runner.Output(ctx, "xprop", "-id", windowID,
		"WM_CLASS", "_NET_WM_NAME", "_NET_WM_PID")
	if err != nil {
		return nil, fmt.Errorf("query window properties: %w", err)
	}

	info := parseWindowProperties(string(out))
	if info.Name == "" {
		return nil, nil
	}
	return &info, nil
}

// Support requires an X display for the active window query. Process
// enumeration works regardless.
func (p *SystemAppProvider) Support() domain.PlatformSupport {
	hasDisplay := os.Getenv("DISPLAY") != ""
	return domain.PlatformSupport{
		Supported:    hasDisplay,
		ActiveWindow: hasDisplay,
		ProcessList:  true,
	}
}
