package ollama

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/rotisserie/eris"
)

const correctPromptHeader = `You are analyzing an IBM 1130 assembler/Forth listing scan from a GRAYSCALE greenbar printout.

CRITICAL INSTRUCTIONS:
1. IGNORE horizontal lines/bars from the greenbar background - they are NOT text
2. PRESERVE EXACT LEADING SPACES - count spaces from the left edge of the image
3. Each line MUST maintain its exact column position as seen in the image

SPACING RULES:
- Measure indentation by counting character positions from LEFT EDGE of image
- Do NOT use the corrupted OCR spacing - look at the actual image
- Preserve ALL horizontal spacing between fields

CHARACTER CORRECTION:
- Fix OCR errors where a character was misread
- Ignore dashes/hyphens from greenbar lines - only include actual printed characters

RAW OCR OUTPUT (corrupted, missing whitespace and has greenbar artifacts):
`

const correctPromptFooter = `

TASK:
Return the corrected text with exact leading spaces preserved from the
image, character errors fixed, and greenbar line artifacts removed.
Return ONLY the corrected text, nothing else.`

// VisionModel wraps an Ollama vision-capable model for scan analysis.
type VisionModel struct {
	client Client
	model  string
}

// NewVisionModel creates a vision model helper.
func NewVisionModel(client Client, model string) *VisionModel {
	return &VisionModel{client: client, model: model}
}

// CorrectText asks the vision model to fix OCR output against the original
// raw image, preserving layout. Returns the corrected transcription.
func (v *VisionModel) CorrectText(ctx context.Context, imageBytes []byte, rawText string) (string, error) {
	req := ChatRequest{
		Model: v.model,
		Messages: []ChatMessage{{
			Role:    "user",
			Content: correctPromptHeader + rawText + correctPromptFooter,
			Images:  []string{base64.StdEncoding.EncodeToString(imageBytes)},
		}},
	}

	resp, err := v.client.Chat(ctx, req)
	if err != nil {
		return "", eris.Wrap(err, "ollama: correct text")
	}

	corrected := strings.TrimSpace(resp.Message.Content)
	if corrected == "" {
		return "", eris.New("ollama: vision model returned empty correction")
	}
	return corrected, nil
}

const classifyImagePrompt = `Describe this document briefly and categorize it as one of:
- CARD_TEXT: Punch card with text (assembler, FORTRAN, etc.)
- CARD_OBJECT: Punch card with binary/object code
- LISTING_SOURCE: Source code listing
- LISTING_OBJECT: Listing with object code
- RUNTIME_OUTPUT: Execution log or output
- UNKNOWN: Cannot determine

Return only JSON: {"category": "...", "description": "..."}`

// ClassifyImage asks the vision model to categorize a scanned image,
// returning the raw category token from the response.
func (v *VisionModel) ClassifyImage(ctx context.Context, imageBytes []byte) (string, error) {
	req := ChatRequest{
		Model: v.model,
		Messages: []ChatMessage{{
			Role:    "user",
			Content: classifyImagePrompt,
			Images:  []string{base64.StdEncoding.EncodeToString(imageBytes)},
		}},
	}

	resp, err := v.client.Chat(ctx, req)
	if err != nil {
		return "", eris.Wrap(err, "ollama: classify image")
	}

	for _, token := range []string{"CARD_TEXT", "CARD_OBJECT", "LISTING_SOURCE", "LISTING_OBJECT", "RUNTIME_OUTPUT"} {
		if strings.Contains(resp.Message.Content, token) {
			return token, nil
		}
	}
	return "UNKNOWN", nil
}
