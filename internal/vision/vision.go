// Package vision provides the optional AI correction collaborator: given
// the original raw image and the OCR output, produce a corrected
// transcription. Correction failures are always recoverable; the caller
// falls back to the uncorrected text.
package vision

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/softwarewrighter/scan3data/internal/config"
	"github.com/softwarewrighter/scan3data/internal/resilience"
	"github.com/softwarewrighter/scan3data/pkg/ollama"
)

// Corrector produces a corrected transcription from the original raw image
// bytes and the raw extracted text.
type Corrector interface {
	Correct(ctx context.Context, imageBytes []byte, rawText string) (string, error)
}

// NewCorrector creates a Corrector based on config, or an error for an
// unknown provider.
func NewCorrector(cfg *config.Config) (Corrector, error) {
	switch cfg.Vision.Provider {
	case "ollama", "":
		client := ollama.New(ollama.Config{
			BaseURL:    cfg.Ollama.BaseURL,
			Timeout:    time.Duration(cfg.Ollama.TimeoutSecs) * time.Second,
			RatePerSec: cfg.Ollama.RatePerSec,
		})
		return NewOllamaCorrector(ollama.NewVisionModel(client, cfg.Ollama.VisionModel)), nil
	case "anthropic":
		if cfg.Vision.AnthropicKey == "" {
			return nil, eris.New("vision: anthropic provider requires anthropic_api_key")
		}
		return NewAnthropicCorrector(cfg.Vision.AnthropicKey, cfg.Vision.Model), nil
	default:
		return nil, eris.Errorf("vision: unknown provider %q", cfg.Vision.Provider)
	}
}

// OllamaCorrector corrects OCR output with a local Ollama vision model.
type OllamaCorrector struct {
	model *ollama.VisionModel
	retry resilience.RetryConfig
}

// NewOllamaCorrector wraps a vision model with transient-error retries.
func NewOllamaCorrector(model *ollama.VisionModel) *OllamaCorrector {
	return &OllamaCorrector{
		model: model,
		retry: resilience.DefaultRetryConfig("ollama"),
	}
}

// Correct asks the vision model for a layout-preserving correction.
func (c *OllamaCorrector) Correct(ctx context.Context, imageBytes []byte, rawText string) (string, error) {
	return resilience.DoVal(ctx, c.retry, func(ctx context.Context) (string, error) {
		return c.model.CorrectText(ctx, imageBytes, rawText)
	})
}
