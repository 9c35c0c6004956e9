package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/focus_mon/internal/domain"
)

const (
	// DefaultAssessEndpoint is the OpenAI-compatible chat completions URL.
	DefaultAssessEndpoint = "https://api.openai.com/v1/chat/completions"
	// DefaultAssessModel is used when no model is configured.
	DefaultAssessModel = "gpt-4o-mini"

	assessTimeout     = 30 * time.Second
	maxScreenTextSize = 2000
)

// ErrUnparseableAssessment means the service reply matched neither the
// JSON contract nor any verdict keyword.
var ErrUnparseableAssessment = errors.New("assessment response is unparseable")

const assessSystemPrompt = `You judge whether a user is focused on their stated task based on the application they are using and text visible on their screen. Respond with a single JSON object: {"focused": true|false, "confidence": 0.0-1.0, "reason": "one sentence", "suggestions": ["optional", "tips"]}. No other text.`

// HTTPAugmenter implements domain.DecisionAugmenter against an
// OpenAI-compatible chat completions endpoint.
type HTTPAugmenter struct {
	client   *http.Client
	endpoint string
	apiKey   string
	model    string
	logger   *zap.Logger
}

// NewHTTPAugmenter creates an augmenter client. Empty endpoint or model
// fall back to the defaults.
func NewHTTPAugmenter(endpoint, apiKey, model string, logger *zap.Logger) *HTTPAugmenter {
	if endpoint == "" {
		endpoint = DefaultAssessEndpoint
	}
	if model == "" {
		model = DefaultAssessModel
	}
	return &HTTPAugmenter{
		client:   &http.Client{Timeout: assessTimeout},
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
		logger:   logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Assess asks the service for an advisory focus judgment.
func (a *HTTPAugmenter) Assess(ctx context.Context, task, activeApp, screenText string) (*domain.Assessment, error) {
	body, err := json.Marshal(chatRequest{
		Model: a.model,
		Messages: []chatMessage{
			{Role: "system", Content: assessSystemPrompt},
			{Role: "user", Content: buildAssessPrompt(task, activeApp, screenText)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encode assessment request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create assessment request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call assessment service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("assessment service returned status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode assessment response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, errors.New("assessment response has no choices")
	}

	assessment, err := ParseAssessment(parsed.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("assessment received",
		zap.Bool("focused", assessment.Focused),
		zap.Float64("confidence", assessment.Confidence))
	return assessment, nil
}

// buildAssessPrompt assembles the user message, bounding screen text so
// a wall of OCR output cannot blow up the request.
func buildAssessPrompt(task, activeApp, screenText string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Task: %s\n", task)
	fmt.Fprintf(&b, "Active application: %s\n", activeApp)
	if screenText != "" {
		if len(screenText) > maxScreenTextSize {
			screenText = screenText[:maxScreenTextSize]
		}
		fmt.Fprintf(&b, "Screen text:\n%s\n", screenText)
	}
	return b.String()
}

// ParseAssessment interprets a service reply. Strict JSON (optionally
// inside a markdown code fence) is preferred; free-text replies fall
// back to verdict keywords, negated forms checked first.
func ParseAssessment(raw string) (*domain.Assessment, error) {
	cleaned := stripCodeFence(strings.TrimSpace(raw))

	var parsed struct {
		Focused     *bool    `json:"focused"`
		Confidence  float64  `json:"confidence"`
		Reason      string   `json:"reason"`
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err == nil && parsed.Focused != nil {
		return &domain.Assessment{
			Focused:     *parsed.Focused,
			Confidence:  parsed.Confidence,
			Reason:      parsed.Reason,
			Suggestions: parsed.Suggestions,
		}, nil
	}

	lower := strings.ToLower(cleaned)
	focused := false
	switch {
	case strings.Contains(lower, "not distracted"):
		focused = true
	case strings.Contains(lower, "not focused"):
		focused = false
	case strings.Contains(lower, "distracted"):
		focused = false
	case strings.Contains(lower, "focused"):
		focused = true
	default:
		return nil, ErrUnparseableAssessment
	}

	return &domain.Assessment{
		Focused:    focused,
		Confidence: 0.5,
		Reason:     firstLine(cleaned),
	}, nil
}

// stripCodeFence removes a surrounding markdown code fence.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// firstLine truncates free text to its first line for use as a reason.
func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return strings.TrimSpace(s[:idx])
	}
	return s
}

// Ensure HTTPAugmenter implements domain.DecisionAugmenter.
var _ domain.DecisionAugmenter = (*HTTPAugmenter)(nil)
