package vision

import (
	"context"
	"encoding/base64"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"

	"github.com/softwarewrighter/scan3data/internal/resilience"
)

const anthropicCorrectPrompt = `The attached image is a grayscale scan of a vintage computer listing
printed on greenbar paper. The OCR output below is corrupted: it has lost
leading whitespace and picked up dash artifacts from the background bands.

Correct the OCR output against the image. Preserve the exact leading spaces
and column alignment visible in the image, fix misread characters, and drop
characters that come from background lines rather than printed text.
Return ONLY the corrected text.

OCR output:
`

// AnthropicCorrector corrects OCR output with the Anthropic messages API.
type AnthropicCorrector struct {
	client sdk.Client
	model  string
	retry  resilience.RetryConfig
}

// NewAnthropicCorrector creates a corrector backed by the official SDK.
func NewAnthropicCorrector(apiKey, model string) *AnthropicCorrector {
	return &AnthropicCorrector{
		client: sdk.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
		retry:  resilience.DefaultRetryConfig("anthropic"),
	}
}

// Correct sends the raw image and OCR text and returns the corrected
// transcription.
func (c *AnthropicCorrector) Correct(ctx context.Context, imageBytes []byte, rawText string) (string, error) {
	return resilience.DoVal(ctx, c.retry, func(ctx context.Context) (string, error) {
		msg, err := c.client.Messages.New(ctx, sdk.MessageNewParams{
			Model:     sdk.Model(c.model),
			MaxTokens: 4096,
			Messages: []sdk.MessageParam{
				sdk.NewUserMessage(
					sdk.NewImageBlockBase64("image/png", base64.StdEncoding.EncodeToString(imageBytes)),
					sdk.NewTextBlock(anthropicCorrectPrompt+rawText),
				),
			},
		})
		if err != nil {
			return "", eris.Wrap(err, "vision: anthropic correct")
		}

		var sb strings.Builder
		for _, block := range msg.Content {
			sb.WriteString(block.Text)
		}
		corrected := strings.TrimSpace(sb.String())
		if corrected == "" {
			return "", eris.New("vision: anthropic returned empty correction")
		}
		return corrected, nil
	})
}
