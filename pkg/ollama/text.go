package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

const refinePrompt = `Analyze this OCR'd text from an IBM 1130 computer listing or card.

Text:
%s

Determine:
1. Language: assembler, FORTRAN, Forth, data, or unknown
2. Purpose: source, listing, object, log
3. Confidence: 0.0 to 1.0

Return JSON only: {"language": "...", "purpose": "...", "confidence": 0.0}`

// Refinement is the text model's judgment about a piece of extracted text.
type Refinement struct {
	Language   string  `json:"language"`
	Purpose    string  `json:"purpose"`
	Confidence float64 `json:"confidence"`
}

// TextModel wraps an Ollama text model for content analysis.
type TextModel struct {
	client Client
	model  string
}

// NewTextModel creates a text model helper.
func NewTextModel(client Client, model string) *TextModel {
	return &TextModel{client: client, model: model}
}

// RefineAndClassify asks the text model to judge extracted text. The model
// sometimes wraps JSON in a markdown fence; both forms are accepted.
func (t *TextModel) RefineAndClassify(ctx context.Context, text string) (*Refinement, error) {
	req := ChatRequest{
		Model: t.model,
		Messages: []ChatMessage{{
			Role:    "user",
			Content: fmt.Sprintf(refinePrompt, text),
		}},
	}

	resp, err := t.client.Chat(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "ollama: refine text")
	}

	var refinement Refinement
	if err := json.Unmarshal([]byte(stripFence(resp.Message.Content)), &refinement); err != nil {
		return nil, eris.Wrapf(err, "ollama: parse refinement %q", resp.Message.Content)
	}
	return &refinement, nil
}

// stripFence removes a surrounding markdown code fence, if present.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
