package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/focus_mon/internal/domain"
)

// mockRunner implements CheckRunner for testing. When started/release
// channels are set, RunCheck signals entry and blocks until released.
type mockRunner struct {
	mu      sync.Mutex
	calls   int
	configs []domain.MonitorConfig
	record  domain.CheckRecord
	err     error
	started chan struct{}
	release chan struct{}
}

func (m *mockRunner) RunCheck(ctx context.Context, cfg domain.MonitorConfig) (domain.CheckRecord, error) {
	m.mu.Lock()
	m.calls++
	m.configs = append(m.configs, cfg)
	m.mu.Unlock()

	if m.started != nil {
		m.started <- struct{}{}
	}
	if m.release != nil {
		<-m.release
	}
	return m.record, m.err
}

func (m *mockRunner) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockRunner) firstConfig() domain.MonitorConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.configs) == 0 {
		return domain.MonitorConfig{}
	}
	return m.configs[0]
}

func (m *mockRunner) lastConfig() domain.MonitorConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.configs) == 0 {
		return domain.MonitorConfig{}
	}
	return m.configs[len(m.configs)-1]
}

// mockSupportProvider implements domain.ActiveAppProvider for the
// capability probe only.
type mockSupportProvider struct {
	support domain.PlatformSupport
}

func (m *mockSupportProvider) ActiveApp(ctx context.Context) (*domain.AppInfo, error) {
	return nil, nil
}

func (m *mockSupportProvider) RunningProcesses(ctx context.Context) ([]domain.ProcessInfo, error) {
	return nil, nil
}

func (m *mockSupportProvider) Support() domain.PlatformSupport {
	return m.support
}

// mockNotifier implements domain.Notifier for testing
type mockNotifier struct {
	mu       sync.Mutex
	count    int
	messages []string
}

func (m *mockNotifier) Notify(title, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count++
	m.messages = append(m.messages, message)
	return nil
}

func (m *mockNotifier) notifyCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

func (m *mockNotifier) lastMessage() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.messages) == 0 {
		return ""
	}
	return m.messages[len(m.messages)-1]
}

func supportedProvider() *mockSupportProvider {
	return &mockSupportProvider{support: domain.PlatformSupport{
		Supported:    true,
		ActiveWindow: true,
		ProcessList:  true,
	}}
}

func validConfig(interval time.Duration) domain.MonitorConfig {
	return domain.MonitorConfig{
		TaskDescription: "write Go code",
		Interval:        interval,
		BlockedApps:     []string{"Steam"},
	}
}

func focusedRecord() domain.CheckRecord {
	return domain.CheckRecord{Focused: true, Reason: "ok", Timestamp: time.Now()}
}

// TestStart_RejectsEmptyTask verifies the synchronous validation
func TestStart_RejectsEmptyTask(t *testing.T) {
	s := NewScheduler(&mockRunner{}, supportedProvider(), NewResultLog(0), zap.NewNop())

	cfg := validConfig(time.Minute)
	cfg.TaskDescription = "   "

	assert.ErrorIs(t, s.Start(cfg), ErrNoTaskDescription)
	assert.Equal(t, domain.StateStopped, s.State())
}

// TestStart_RejectsUnsupportedPlatform verifies the capability probe
func TestStart_RejectsUnsupportedPlatform(t *testing.T) {
	provider := &mockSupportProvider{support: domain.PlatformSupport{Supported: false}}
	s := NewScheduler(&mockRunner{}, provider, NewResultLog(0), zap.NewNop())

	assert.ErrorIs(t, s.Start(validConfig(time.Minute)), ErrUnsupportedPlatform)
	assert.Equal(t, domain.StateStopped, s.State())
}

// TestStart_RejectsNonPositiveInterval verifies interval validation
func TestStart_RejectsNonPositiveInterval(t *testing.T) {
	s := NewScheduler(&mockRunner{}, supportedProvider(), NewResultLog(0), zap.NewNop())

	assert.ErrorIs(t, s.Start(validConfig(0)), ErrInvalidInterval)
	assert.ErrorIs(t, s.Start(validConfig(-time.Second)), ErrInvalidInterval)
}

// TestStart_IsIdempotentWhileRunning verifies double start is harmless
func TestStart_IsIdempotentWhileRunning(t *testing.T) {
	runner := &mockRunner{record: focusedRecord()}
	s := NewScheduler(runner, supportedProvider(), NewResultLog(0), zap.NewNop())

	require.NoError(t, s.Start(validConfig(time.Hour)))
	require.NoError(t, s.Start(validConfig(time.Hour)))

	assert.Equal(t, domain.StateScheduled, s.State())

	s.Stop()
	assert.Equal(t, domain.StateStopped, s.State())
	assert.Zero(t, runner.callCount())
}

// TestStop_BeforeFirstFire verifies no check runs once canceled
func TestStop_BeforeFirstFire(t *testing.T) {
	runner := &mockRunner{record: focusedRecord()}
	log := NewResultLog(0)
	s := NewScheduler(runner, supportedProvider(), log, zap.NewNop())

	require.NoError(t, s.Start(validConfig(time.Hour)))
	s.Stop()

	assert.Equal(t, domain.StateStopped, s.State())
	assert.Zero(t, runner.callCount())
	assert.Zero(t, log.Len())
}

// TestStop_IsIdempotent verifies repeated stop is harmless
func TestStop_IsIdempotent(t *testing.T) {
	s := NewScheduler(&mockRunner{}, supportedProvider(), NewResultLog(0), zap.NewNop())

	require.NoError(t, s.Start(validConfig(time.Hour)))
	s.Stop()
	s.Stop()

	assert.Equal(t, domain.StateStopped, s.State())
}

// TestScheduler_RunsPeriodicChecks verifies the rearm cycle
func TestScheduler_RunsPeriodicChecks(t *testing.T) {
	runner := &mockRunner{record: focusedRecord()}
	log := NewResultLog(0)
	s := NewScheduler(runner, supportedProvider(), log, zap.NewNop())

	require.NoError(t, s.Start(validConfig(10*time.Millisecond)))
	defer s.Stop()

	require.Eventually(t, func() bool { return log.Len() >= 3 },
		2*time.Second, 5*time.Millisecond)

	state := s.State()
	assert.True(t, state == domain.StateScheduled || state == domain.StateChecking)
	assert.GreaterOrEqual(t, runner.callCount(), 3)
}

// TestScheduler_RunnerErrorFailsOpen verifies failure containment
func TestScheduler_RunnerErrorFailsOpen(t *testing.T) {
	runner := &mockRunner{err: errors.New("window server gone")}
	log := NewResultLog(0)
	s := NewScheduler(runner, supportedProvider(), log, zap.NewNop())

	require.NoError(t, s.Start(validConfig(10*time.Millisecond)))
	defer s.Stop()

	// At least two records proves the loop survived the first failure.
	require.Eventually(t, func() bool { return log.Len() >= 2 },
		2*time.Second, 5*time.Millisecond)

	rec := log.Snapshot()[0]
	assert.True(t, rec.Focused)
	assert.Contains(t, rec.Reason, "check failed")
	assert.Contains(t, rec.Reason, "window server gone")
	assert.Equal(t, log.Stats().TotalChecks, log.Stats().FocusedChecks)
}

// TestScheduler_StaleResultDiscardedAfterStop verifies the generation
// guard on in-flight checks
func TestScheduler_StaleResultDiscardedAfterStop(t *testing.T) {
	runner := &mockRunner{
		record:  domain.CheckRecord{Focused: false, Reason: "distracted", Timestamp: time.Now()},
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	log := NewResultLog(0)
	s := NewScheduler(runner, supportedProvider(), log, zap.NewNop())

	require.NoError(t, s.Start(validConfig(5*time.Millisecond)))

	<-runner.started
	assert.Equal(t, domain.StateChecking, s.State())

	s.Stop()
	close(runner.release)

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, log.Len())
	assert.Equal(t, domain.StateStopped, s.State())
	assert.Equal(t, 1, runner.callCount())
}

// TestScheduler_ConfigSnapshotIsolated verifies caller mutations after
// Start never reach a check
func TestScheduler_ConfigSnapshotIsolated(t *testing.T) {
	runner := &mockRunner{record: focusedRecord()}
	s := NewScheduler(runner, supportedProvider(), NewResultLog(0), zap.NewNop())

	cfg := validConfig(10 * time.Millisecond)
	require.NoError(t, s.Start(cfg))
	defer s.Stop()

	cfg.BlockedApps[0] = "mutated"
	cfg.TaskDescription = "mutated"

	require.Eventually(t, func() bool { return runner.callCount() >= 1 },
		2*time.Second, 5*time.Millisecond)

	got := runner.firstConfig()
	assert.Equal(t, "Steam", got.BlockedApps[0])
	assert.Equal(t, "write Go code", got.TaskDescription)
}

// TestSetConfig_TakesEffectNextCycle verifies live reconfiguration
func TestSetConfig_TakesEffectNextCycle(t *testing.T) {
	runner := &mockRunner{record: focusedRecord()}
	s := NewScheduler(runner, supportedProvider(), NewResultLog(0), zap.NewNop())

	require.NoError(t, s.Start(validConfig(10*time.Millisecond)))
	defer s.Stop()

	next := validConfig(10 * time.Millisecond)
	next.TaskDescription = "review pull requests"
	require.NoError(t, s.SetConfig(next))

	require.Eventually(t, func() bool {
		return runner.lastConfig().TaskDescription == "review pull requests"
	}, 2*time.Second, 5*time.Millisecond)
}

// TestSetConfig_Validates verifies reconfiguration rejects bad input
func TestSetConfig_Validates(t *testing.T) {
	s := NewScheduler(&mockRunner{}, supportedProvider(), NewResultLog(0), zap.NewNop())

	bad := validConfig(time.Minute)
	bad.TaskDescription = ""
	assert.ErrorIs(t, s.SetConfig(bad), ErrNoTaskDescription)

	bad = validConfig(0)
	assert.ErrorIs(t, s.SetConfig(bad), ErrInvalidInterval)
}

// TestScheduler_NotifiesOnDistraction verifies the optional notifier
// fires after a distracted record lands
func TestScheduler_NotifiesOnDistraction(t *testing.T) {
	runner := &mockRunner{record: domain.CheckRecord{
		Focused:   false,
		Reason:    "active application \"Steam\" matches blocked app \"Steam\" (score 1.00)",
		ActiveApp: "Steam",
		Timestamp: time.Now(),
	}}
	notifier := &mockNotifier{}
	s := NewScheduler(runner, supportedProvider(), NewResultLog(0), zap.NewNop()).
		WithNotifier(notifier)

	require.NoError(t, s.Start(validConfig(10*time.Millisecond)))
	defer s.Stop()

	require.Eventually(t, func() bool { return notifier.notifyCount() >= 1 },
		2*time.Second, 5*time.Millisecond)
	assert.Contains(t, notifier.lastMessage(), "Steam")
}

// TestScheduler_RestartAfterStop verifies the full lifecycle round trip
func TestScheduler_RestartAfterStop(t *testing.T) {
	runner := &mockRunner{record: focusedRecord()}
	log := NewResultLog(0)
	s := NewScheduler(runner, supportedProvider(), log, zap.NewNop())

	require.NoError(t, s.Start(validConfig(10*time.Millisecond)))
	require.Eventually(t, func() bool { return log.Len() >= 1 },
		2*time.Second, 5*time.Millisecond)
	s.Stop()

	countAfterStop := log.Len()

	require.NoError(t, s.Start(validConfig(10*time.Millisecond)))
	defer s.Stop()

	require.Eventually(t, func() bool { return log.Len() > countAfterStop },
		2*time.Second, 5*time.Millisecond)
}
