//go:build !darwin && !linux

package infra

import (
	"context"
	"fmt"
	"runtime"

	"github.com/eliteGoblin/focusd/focus_mon/internal/domain"
)

// ActiveApp is unavailable outside macOS and Linux.
func (p *SystemAppProvider) ActiveApp(ctx context.Context) (*domain.AppInfo, error) {
	return nil, fmt.Errorf("active window detection not supported on %s", runtime.GOOS)
}

// Support reports process enumeration only.
func (p *SystemAppProvider) Support() domain.PlatformSupport {
	return domain.PlatformSupport{ProcessList: true}
}
