// Package fixtures provides test doubles for integration tests.
package fixtures

import (
	"context"
	"sync"

	"github.com/eliteGoblin/focusd/focus_mon/internal/domain"
)

// FakeAppProvider implements domain.ActiveAppProvider with a scripted
// sequence of foreground applications. The last entry repeats once the
// sequence is exhausted; an empty name means no active window.
type FakeAppProvider struct {
	mu    sync.Mutex
	apps  []string
	err   error
	calls int
}

// NewFakeAppProvider creates a provider cycling through apps.
func NewFakeAppProvider(apps ...string) *FakeAppProvider {
	return &FakeAppProvider{apps: apps}
}

// SetApps replaces the scripted sequence and resets the cursor.
func (f *FakeAppProvider) SetApps(apps ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.apps = apps
	f.calls = 0
}

// SetError makes every ActiveApp call fail until cleared.
func (f *FakeAppProvider) SetError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// ActiveApp returns the next scripted application.
func (f *FakeAppProvider) ActiveApp(ctx context.Context) (*domain.AppInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	if len(f.apps) == 0 {
		return nil, nil
	}

	idx := f.calls
	if idx >= len(f.apps) {
		idx = len(f.apps) - 1
	}
	f.calls++

	name := f.apps[idx]
	if name == "" {
		return nil, nil
	}
	return &domain.AppInfo{Name: name, PID: 1000 + idx}, nil
}

// RunningProcesses returns one process per distinct scripted app.
func (f *FakeAppProvider) RunningProcesses(ctx context.Context) ([]domain.ProcessInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}

	seen := make(map[string]struct{})
	var procs []domain.ProcessInfo
	for i, name := range f.apps {
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		procs = append(procs, domain.ProcessInfo{
			Name:        name,
			PID:         1000 + i,
			MemoryBytes: uint64(1<<20) * uint64(len(procs)+1),
		})
	}
	return procs, nil
}

// Support reports full capability.
func (f *FakeAppProvider) Support() domain.PlatformSupport {
	return domain.PlatformSupport{
		Supported:    true,
		ActiveWindow: true,
		ProcessList:  true,
	}
}

// Calls returns how many ActiveApp queries were made.
func (f *FakeAppProvider) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// Ensure FakeAppProvider implements domain.ActiveAppProvider.
var _ domain.ActiveAppProvider = (*FakeAppProvider)(nil)
