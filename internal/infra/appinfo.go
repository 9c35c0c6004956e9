package infra

import (
	"context"
	"fmt"
	"sort"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/eliteGoblin/focusd/focus_mon/internal/domain"
)

// SystemAppProvider implements domain.ActiveAppProvider. The active
// window query goes through the platform's window system (per-OS files)
// and process enumeration through gopsutil.
type SystemAppProvider struct {
	runner CommandRunner
}

// NewSystemAppProvider creates a provider backed by real system commands.
func NewSystemAppProvider() *SystemAppProvider {
	return &SystemAppProvider{runner: &RealCommandRunner{}}
}

// NewSystemAppProviderWithRunner creates a provider with an injectable
// command runner (for testing).
func NewSystemAppProviderWithRunner(runner CommandRunner) *SystemAppProvider {
	return &SystemAppProvider{runner: runner}
}

// RunningProcesses returns named processes sorted by descending memory
// use, so the heaviest applications list first.
func (p *SystemAppProvider) RunningProcesses(ctx context.Context) ([]domain.ProcessInfo, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerate processes: %w", err)
	}

	var infos []domain.ProcessInfo
	for _, proc := range procs {
		name, err := proc.NameWithContext(ctx)
		if err != nil || name == "" {
			continue // process may have exited
		}
		info := domain.ProcessInfo{Name: name, PID: int(proc.Pid)}
		if mem, err := proc.MemoryInfoWithContext(ctx); err == nil && mem != nil {
			info.MemoryBytes = mem.RSS
		}
		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].MemoryBytes > infos[j].MemoryBytes
	})
	return infos, nil
}

// Ensure SystemAppProvider implements domain.ActiveAppProvider.
var _ domain.ActiveAppProvider = (*SystemAppProvider)(nil)
