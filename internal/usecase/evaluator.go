// Package usecase contains application business logic.
package usecase

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/focus_mon/internal/domain"
	"github.com/eliteGoblin/focusd/focus_mon/internal/match"
)

// Evaluator applies block/allow policy to the active application using
// the fuzzy resolver.
type Evaluator struct {
	resolver *match.Resolver
	logger   *zap.Logger
}

// NewEvaluator creates a new focus evaluator.
func NewEvaluator(resolver *match.Resolver, logger *zap.Logger) *Evaluator {
	if resolver == nil {
		resolver = match.NewDefaultResolver()
	}
	return &Evaluator{
		resolver: resolver,
		logger:   logger,
	}
}

// Evaluate classifies the active application against the allow and
// block lists. The policy order is fixed:
//
//  1. no active application -> focused
//  2. block-list match -> distracted, regardless of the allow list
//  3. allow list configured but no match -> distracted
//  4. no restrictions -> focused
//
// The block list always wins over the allow list, so an app on both
// lists counts as a distraction.
func (e *Evaluator) Evaluate(activeApp string, allowed, blocked []string) domain.Decision {
	if activeApp == "" {
		return domain.Decision{
			Focused: true,
			Reason:  "no active application detected",
		}
	}

	if len(blocked) > 0 {
		if m := e.resolver.BestMatch(activeApp, blocked); m.Found() {
			e.logger.Debug("active app matches block list",
				zap.String("active_app", activeApp),
				zap.String("blocked_entry", m.Candidate),
				zap.Float64("score", m.Score))
			return domain.Decision{
				Focused:      false,
				Reason:       fmt.Sprintf("active application %q matches blocked app %q (score %.2f)", activeApp, m.Candidate, m.Score),
				BlockedMatch: true,
			}
		}
	}

	if len(allowed) > 0 {
		m := e.resolver.BestMatch(activeApp, allowed)
		if !m.Found() {
			return domain.Decision{
				Focused: false,
				Reason:  fmt.Sprintf("active application %q is not in the allowed list", activeApp),
			}
		}
		return domain.Decision{
			Focused: true,
			Reason:  fmt.Sprintf("active application %q matches allowed app %q (score %.2f)", activeApp, m.Candidate, m.Score),
		}
	}

	return domain.Decision{
		Focused: true,
		Reason:  "no restrictions configured",
	}
}

// Suggest returns candidates from names worth offering for target in a
// completion UI, using the permissive suggestion threshold. Never used
// for focus decisions.
func (e *Evaluator) Suggest(target string, names []string) []match.Match {
	return e.resolver.AllMatches(target, names, match.SuggestThreshold)
}
