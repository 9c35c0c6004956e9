package monitor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/focus_mon/internal/domain"
)

// Lifecycle errors returned synchronously from Start and SetConfig.
var (
	// ErrNoTaskDescription means the config has no task to monitor against.
	ErrNoTaskDescription = errors.New("task description is required")
	// ErrUnsupportedPlatform means active window detection is unavailable here.
	ErrUnsupportedPlatform = errors.New("platform does not support active window detection")
	// ErrInvalidInterval means the check interval is zero or negative.
	ErrInvalidInterval = errors.New("check interval must be positive")
)

// CheckRunner runs a single focus check against a config snapshot.
type CheckRunner interface {
	RunCheck(ctx context.Context, cfg domain.MonitorConfig) (domain.CheckRecord, error)
}

// Scheduler drives periodic focus checks through a small state machine:
// Stopped -> Scheduled (timer armed) -> Checking (one check in flight)
// -> Scheduled. At most one check runs at a time; the next timer is
// armed only after the previous check completes, so slow checks stretch
// the cycle instead of piling up.
//
// Stop invalidates any armed timer and any in-flight check by bumping a
// generation counter. A timer fire or check completion carrying a stale
// generation is discarded without touching the log.
type Scheduler struct {
	runner   CheckRunner
	provider domain.ActiveAppProvider
	log      *ResultLog
	notifier domain.Notifier
	logger   *zap.Logger

	mu         sync.Mutex
	state      domain.MonitorState
	config     domain.MonitorConfig
	generation uint64
	timer      *time.Timer
}

// NewScheduler creates a stopped scheduler. The provider is consulted
// only for its platform capability probe; checks go through the runner.
func NewScheduler(runner CheckRunner, provider domain.ActiveAppProvider, log *ResultLog, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		runner:   runner,
		provider: provider,
		log:      log,
		logger:   logger,
		state:    domain.StateStopped,
	}
}

// WithNotifier attaches an optional desktop notifier, invoked after a
// distracted check is recorded.
func (s *Scheduler) WithNotifier(n domain.Notifier) *Scheduler {
	s.notifier = n
	return s
}

// Start validates the config and arms the first check timer.
// Starting an already running monitor is a no-op.
func (s *Scheduler) Start(cfg domain.MonitorConfig) error {
	if strings.TrimSpace(cfg.TaskDescription) == "" {
		return ErrNoTaskDescription
	}
	if !s.provider.Support().Supported {
		return ErrUnsupportedPlatform
	}
	if cfg.Interval <= 0 {
		return ErrInvalidInterval
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.StateStopped {
		s.logger.Debug("monitor already running", zap.String("state", string(s.state)))
		return nil
	}

	s.config = cfg.Clone()
	s.state = domain.StateScheduled
	s.armLocked(s.config.Interval)

	s.logger.Info("monitor started",
		zap.String("task", cfg.TaskDescription),
		zap.Duration("interval", cfg.Interval))
	return nil
}

// Stop cancels the armed timer and marks any in-flight check stale.
// Stopping a stopped monitor is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == domain.StateStopped {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.generation++
	s.state = domain.StateStopped
	s.logger.Info("monitor stopped")
}

// SetConfig replaces the monitoring config. A running monitor picks up
// the new values on its next cycle; the in-flight check, if any, keeps
// the snapshot it started with.
func (s *Scheduler) SetConfig(cfg domain.MonitorConfig) error {
	if strings.TrimSpace(cfg.TaskDescription) == "" {
		return ErrNoTaskDescription
	}
	if cfg.Interval <= 0 {
		return ErrInvalidInterval
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg.Clone()
	return nil
}

// State returns the current lifecycle state.
func (s *Scheduler) State() domain.MonitorState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Config returns a copy of the active config.
func (s *Scheduler) Config() domain.MonitorConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config.Clone()
}

// armLocked schedules the next one-shot timer. Caller holds the lock.
func (s *Scheduler) armLocked(interval time.Duration) {
	gen := s.generation
	s.timer = time.AfterFunc(interval, func() { s.tick(gen) })
}

// tick fires when an armed timer elapses and runs one check outside the
// lock. A generation mismatch means Stop ran after the timer was armed.
func (s *Scheduler) tick(gen uint64) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.state = domain.StateChecking
	cfg := s.config.Clone()
	s.mu.Unlock()

	record, err := s.runner.RunCheck(context.Background(), cfg)
	if err != nil {
		// Fail open: a broken provider must not stop the monitor or
		// flag the user as distracted.
		s.logger.Warn("focus check failed", zap.Error(err))
		record = domain.CheckRecord{
			Focused:   true,
			Reason:    fmt.Sprintf("check failed: %v", err),
			Timestamp: time.Now(),
		}
	}

	s.complete(gen, record)
}

// complete applies a finished check and arms the next cycle, unless
// Stop invalidated the generation while the check was in flight.
func (s *Scheduler) complete(gen uint64, record domain.CheckRecord) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		s.logger.Debug("discarding stale check result")
		return
	}
	s.log.Append(record)
	s.state = domain.StateScheduled
	s.armLocked(s.config.Interval)
	s.mu.Unlock()

	if record.Focused {
		s.logger.Debug("check recorded",
			zap.String("app", record.ActiveApp),
			zap.String("reason", record.Reason))
		return
	}

	s.logger.Info("distraction detected",
		zap.String("app", record.ActiveApp),
		zap.String("reason", record.Reason))
	s.notifyDistracted(record)
}

// notifyDistracted raises a desktop notification when one is wired.
func (s *Scheduler) notifyDistracted(record domain.CheckRecord) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify("Focus check", record.Reason); err != nil {
		s.logger.Debug("notification failed", zap.Error(err))
	}
}
