package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/focus_mon/internal/domain"
)

// Checker runs one focus check: query the active application, apply
// the block/allow policy, and optionally enrich the result with screen
// text and an advisory assessment.
//
// Only the active-app query can fail a check; the optional
// collaborators degrade silently so a broken screen-capture tool or an
// unreachable assessment service never aborts the pipeline.
type Checker struct {
	provider  domain.ActiveAppProvider
	screen    domain.ScreenTextProvider
	augmenter domain.DecisionAugmenter
	evaluator *Evaluator
	logger    *zap.Logger
}

// NewChecker creates a checker with only the required collaborator.
func NewChecker(provider domain.ActiveAppProvider, evaluator *Evaluator, logger *zap.Logger) *Checker {
	return &Checker{
		provider:  provider,
		evaluator: evaluator,
		logger:    logger,
	}
}

// WithScreenText attaches the optional screen-text collaborator.
func (c *Checker) WithScreenText(screen domain.ScreenTextProvider) *Checker {
	c.screen = screen
	return c
}

// WithAugmenter attaches the optional decision augmenter.
func (c *Checker) WithAugmenter(augmenter domain.DecisionAugmenter) *Checker {
	c.augmenter = augmenter
	return c
}

// RunCheck performs a single check against the given config snapshot.
// The returned error covers only active-app query faults; the caller
// owns failure containment (fail-open records).
func (c *Checker) RunCheck(ctx context.Context, cfg domain.MonitorConfig) (domain.CheckRecord, error) {
	record := domain.CheckRecord{Timestamp: time.Now()}

	app, err := c.provider.ActiveApp(ctx)
	if err != nil {
		return record, fmt.Errorf("query active application: %w", err)
	}

	var activeName string
	if app != nil {
		activeName = app.Name
	}
	record.ActiveApp = activeName

	decision := c.evaluator.Evaluate(activeName, cfg.AllowedApps, cfg.BlockedApps)

	// With no active application there is nothing to capture or
	// assess; the verdict is already focused.
	if app != nil {
		screenText := c.collectScreenText(ctx, &record)
		decision = c.augment(ctx, decision, cfg.TaskDescription, activeName, screenText)
	}

	record.Focused = decision.Focused
	record.Reason = decision.Reason
	return record, nil
}

// collectScreenText captures the screen and extracts text, storing the
// opaque references on the record. Failures only log.
func (c *Checker) collectScreenText(ctx context.Context, record *domain.CheckRecord) string {
	if c.screen == nil || !c.screen.Available() {
		return ""
	}

	path, err := c.screen.CaptureScreen(ctx)
	if err != nil {
		c.logger.Debug("screen capture failed", zap.Error(err))
		return ""
	}
	record.ScreenshotPath = path

	text, err := c.screen.ExtractText(ctx, path)
	if err != nil {
		c.logger.Debug("text extraction failed", zap.Error(err))
		return ""
	}
	record.ScreenText = text.Text
	return text.Text
}

// augment asks the optional assessment service and merges its advisory
// judgment into the core decision.
func (c *Checker) augment(ctx context.Context, core domain.Decision, task, activeApp, screenText string) domain.Decision {
	if c.augmenter == nil {
		return core
	}

	assessment, err := c.augmenter.Assess(ctx, task, activeApp, screenText)
	if err != nil {
		c.logger.Debug("assessment unavailable, using core decision",
			zap.Error(err))
		return core
	}

	return ApplyAssessment(core, assessment)
}

// ApplyAssessment merges an advisory assessment into a core decision.
// A block-list verdict is never overridden: the assessment may only
// append to its reason. Otherwise the assessment replaces the verdict
// and extends the reason.
func ApplyAssessment(core domain.Decision, a *domain.Assessment) domain.Decision {
	if a == nil {
		return core
	}

	merged := core
	if !core.BlockedMatch {
		merged.Focused = a.Focused
	}
	if a.Reason != "" {
		merged.Reason = fmt.Sprintf("%s; assessment: %s", core.Reason, a.Reason)
	}
	return merged
}
