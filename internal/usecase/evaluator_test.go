package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/focus_mon/internal/match"
)

func newTestEvaluator() *Evaluator {
	return NewEvaluator(match.NewDefaultResolver(), zap.NewNop())
}

// TestEvaluate_NoActiveApp verifies an empty name is fail-open focused
func TestEvaluate_NoActiveApp(t *testing.T) {
	e := newTestEvaluator()

	d := e.Evaluate("", []string{"Chrome"}, []string{"Steam"})

	assert.True(t, d.Focused)
	assert.Equal(t, "no active application detected", d.Reason)
	assert.False(t, d.BlockedMatch)
}

// TestEvaluate_BlockedMatch verifies a block-list hit is distracted
func TestEvaluate_BlockedMatch(t *testing.T) {
	e := newTestEvaluator()

	d := e.Evaluate("WeChat.exe", nil, []string{"WeChat"})

	assert.False(t, d.Focused)
	assert.Contains(t, d.Reason, "WeChat")
	assert.True(t, d.BlockedMatch)
}

// TestEvaluate_BlockedWinsOverAllowed verifies block-list precedence
func TestEvaluate_BlockedWinsOverAllowed(t *testing.T) {
	e := newTestEvaluator()

	// The app matches both lists; the block list must win.
	d := e.Evaluate("Google Chrome", []string{"chrome"}, []string{"chrome"})

	assert.False(t, d.Focused)
	assert.True(t, d.BlockedMatch)
	assert.Contains(t, d.Reason, "blocked")
}

// TestEvaluate_NotInAllowedList verifies a miss on the allow list
func TestEvaluate_NotInAllowedList(t *testing.T) {
	e := newTestEvaluator()

	d := e.Evaluate("Slack", []string{"Visual Studio Code"}, nil)

	assert.False(t, d.Focused)
	assert.Contains(t, d.Reason, "not in the allowed list")
	assert.False(t, d.BlockedMatch)
}

// TestEvaluate_AllowedMatch verifies a fuzzy allow-list hit is focused
func TestEvaluate_AllowedMatch(t *testing.T) {
	e := newTestEvaluator()

	d := e.Evaluate("code", []string{"Visual Studio Code"}, nil)

	assert.True(t, d.Focused)
	assert.Contains(t, d.Reason, "Visual Studio Code")
}

// TestEvaluate_NoRestrictions verifies empty lists default to focused
func TestEvaluate_NoRestrictions(t *testing.T) {
	e := newTestEvaluator()

	d := e.Evaluate("Anything At All", nil, nil)

	assert.True(t, d.Focused)
	assert.Equal(t, "no restrictions configured", d.Reason)
}

// TestSuggest_UsesPermissiveThreshold verifies suggestion filtering
func TestSuggest_UsesPermissiveThreshold(t *testing.T) {
	e := newTestEvaluator()

	got := e.Suggest("chrome helper", []string{"Google Chrome Helper", "Slack"})

	require.Len(t, got, 1)
	assert.Equal(t, "Google Chrome Helper", got[0].Candidate)
	assert.GreaterOrEqual(t, got[0].Score, match.SuggestThreshold)
}
