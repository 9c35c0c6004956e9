// Package domain contains core business entities and interfaces.
// This is the innermost layer in Clean Architecture - no external dependencies.
package domain

import "time"

// MonitorState identifies the lifecycle state of a focus monitor.
type MonitorState string

const (
	// StateStopped means no timer is armed and no check is running.
	StateStopped MonitorState = "stopped"
	// StateScheduled means a one-shot timer is armed, no check running.
	StateScheduled MonitorState = "scheduled"
	// StateChecking means exactly one check is in flight.
	StateChecking MonitorState = "checking"
)

// MonitorConfig is the user-declared task intent the monitor evaluates
// against. The scheduler reads a fresh snapshot on every tick, so field
// changes take effect on the next cycle, never mid-check.
type MonitorConfig struct {
	// TaskDescription is what the user claims to be working on.
	// Must be non-empty while the monitor is active.
	TaskDescription string
	// Interval between checks. The CLI enforces the 10s-600s product
	// bounds; the core only rejects non-positive values.
	Interval time.Duration
	// AllowedApps the user expects to use for the task (may be empty).
	AllowedApps []string
	// BlockedApps that always count as distraction (may be empty).
	BlockedApps []string
}

// Clone returns a deep copy so a tick operates on an immutable snapshot.
func (c MonitorConfig) Clone() MonitorConfig {
	out := c
	out.AllowedApps = append([]string(nil), c.AllowedApps...)
	out.BlockedApps = append([]string(nil), c.BlockedApps...)
	return out
}

// AppInfo describes the foreground application as reported by the OS.
type AppInfo struct {
	Name  string
	PID   int
	Title string
}

// ProcessInfo describes one running process.
type ProcessInfo struct {
	Name        string
	PID         int
	MemoryBytes uint64
}

// PlatformSupport reports which provider capabilities are available on
// this platform. Supported is false on platforms with no active-window
// lookup, which blocks monitor startup.
type PlatformSupport struct {
	Supported    bool
	ActiveWindow bool
	ProcessList  bool
}

// Decision is the outcome of applying block/allow policy to the active
// application.
type Decision struct {
	Focused bool
	Reason  string
	// BlockedMatch is true when the verdict came from a block-list hit.
	// A block-list verdict can never be overridden by advisory input.
	BlockedMatch bool
}

// ScreenText is OCR output from an optional screen capture.
type ScreenText struct {
	Text       string
	Confidence float64
}

// Assessment is an advisory judgment from an external decision service
// (e.g. an AI provider). It is never trusted to override a block-list
// verdict.
type Assessment struct {
	Focused     bool
	Confidence  float64
	Reason      string
	Suggestions []string
}

// CheckRecord captures the outcome of a single focus check.
type CheckRecord struct {
	Focused   bool
	Reason    string
	ActiveApp string // empty when no active application was detected
	Timestamp time.Time
	// Opaque references owned by the screen-text collaborator.
	ScreenshotPath string
	ScreenText     string
}

// Statistics are running counters over all recorded checks.
// TotalChecks == FocusedChecks + DistractedChecks at all times.
type Statistics struct {
	TotalChecks      int
	FocusedChecks    int
	DistractedChecks int
}
