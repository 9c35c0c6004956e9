package infra

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/focus_mon/internal/domain"
)

// OCRScreenTextProvider implements domain.ScreenTextProvider using the
// platform screenshot tool and tesseract. Both are optional system
// dependencies; Available gates the whole pipeline.
type OCRScreenTextProvider struct {
	runner CommandRunner
	tmpDir string
	logger *zap.Logger
}

// NewOCRScreenTextProvider creates a provider writing captures under
// tmpDir.
func NewOCRScreenTextProvider(tmpDir string, logger *zap.Logger) *OCRScreenTextProvider {
	return &OCRScreenTextProvider{
		runner: &RealCommandRunner{},
		tmpDir: tmpDir,
		logger: logger,
	}
}

// NewOCRScreenTextProviderWithRunner creates a provider with an
// injectable command runner (for testing).
func NewOCRScreenTextProviderWithRunner(runner CommandRunner, tmpDir string, logger *zap.Logger) *OCRScreenTextProvider {
	return &OCRScreenTextProvider{runner: runner, tmpDir: tmpDir, logger: logger}
}

// Available reports whether both the capture tool and tesseract are
// installed.
func (o *OCRScreenTextProvider) Available() bool {
	tool, _ := captureCommand(runtime.GOOS, "")
	if _, err := exec.LookPath(tool); err != nil {
		return false
	}
	if _, err := exec.LookPath("tesseract"); err != nil {
		return false
	}
	return true
}

// CaptureScreen takes a full-screen screenshot and returns its path.
func (o *OCRScreenTextProvider) CaptureScreen(ctx context.Context) (string, error) {
	path := filepath.Join(o.tmpDir, fmt.Sprintf("focusmon-%d.png", time.Now().UnixNano()))
	tool, args := captureCommand(runtime.GOOS, path)
	if err := o.runner.Run(ctx, tool, args...); err != nil {
		return "", fmt.Errorf("capture screen: %w", err)
	}
	o.logger.Debug("screen captured", zap.String("path", path))
	return path, nil
}

// ExtractText runs tesseract over a capture and returns the recognized
// text with its mean word confidence.
func (o *OCRScreenTextProvider) ExtractText(ctx context.Context, path string) (domain.ScreenText, error) {
	out, err := o.runner.Output(ctx, "tesseract", path, "stdout", "tsv")
	if err != nil {
		return domain.ScreenText{}, fmt.Errorf("extract text: %w", err)
	}

	text, confidence := parseTesseractTSV(string(out))
	o.logger.Debug("text extracted",
		zap.Int("chars", len(text)),
		zap.Float64("confidence", confidence))
	return domain.ScreenText{Text: text, Confidence: confidence}, nil
}

// captureCommand returns the screenshot command for a platform.
// macOS ships screencapture; elsewhere ImageMagick's import is assumed.
func captureCommand(goos, path string) (string, []string) {
	if goos == "darwin" {
		return "screencapture", []string{"-x", path}
	}
	return "import", []string{"-window", "root", path}
}

// parseTesseractTSV joins the word column of tesseract's TSV output and
// averages per-word confidence. Structural rows carry confidence -1 and
// are skipped.
func parseTesseractTSV(out string) (string, float64) {
	var words []string
	var confSum float64
	var confCount int

	lines := strings.Split(out, "\n")
	for i, line := range lines {
		if i == 0 {
			continue // header
		}
		cols := strings.Split(line, "\t")
		if len(cols) < 12 {
			continue
		}
		conf, err := strconv.ParseFloat(cols[10], 64)
		if err != nil || conf < 0 {
			continue
		}
		word := strings.TrimSpace(cols[11])
		if word == "" {
			continue
		}
		words = append(words, word)
		confSum += conf
		confCount++
	}

	if confCount == 0 {
		return "", 0
	}
	// Tesseract reports 0-100; normalize to 0-1.
	return strings.Join(words, " "), confSum / float64(confCount) / 100
}

// Ensure OCRScreenTextProvider implements domain.ScreenTextProvider.
var _ domain.ScreenTextProvider = (*OCRScreenTextProvider)(nil)
