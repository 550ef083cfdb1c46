// Package gemini is a client for the Gemini image-editing API, used to
// clean greenbar scans with a generative model instead of the classical
// filters.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

const (
	defaultModel   = "gemini-2.5-flash-image"
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
)

const cleanPrompt = "This is a scan of a vintage computer printout on greenbar paper. " +
	"The image has horizontal lines and bands from the greenbar background. " +
	"Remove all background lines, bands, and artifacts while preserving the printed text exactly. " +
	"Keep the text sharp and clear. Output a clean white background with only the text visible."

// Client cleans scan images via the Gemini generateContent endpoint.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// New creates a Gemini client. If model is empty, the default image model
// is used.
func New(apiKey, model string, timeout time.Duration) *Client {
	if model == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

// part is either a text part or an inline image; empty fields are omitted
// so the union serializes the way the API expects.
type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// CleanImage sends a scanned image to the model with a greenbar-removal
// prompt and returns the cleaned image bytes.
func (c *Client) CleanImage(ctx context.Context, imageBytes []byte) ([]byte, error) {
	req := generateRequest{
		Contents: []content{{
			Parts: []part{
				{Text: cleanPrompt},
				{InlineData: &inlineData{
					MimeType: "image/png",
					Data:     base64.StdEncoding.EncodeToString(imageBytes),
				}},
			},
		}},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, eris.Wrap(err, "gemini: marshal request")
	}

	url := c.baseURL + "/models/" + c.model + ":generateContent"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "gemini: create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "gemini: API call")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "gemini: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("gemini: API returned %d: %s", resp.StatusCode, string(respBody))
	}

	var genResp generateResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return nil, eris.Wrap(err, "gemini: unmarshal response")
	}

	for _, cand := range genResp.Candidates {
		for _, p := range cand.Content.Parts {
			if p.InlineData != nil {
				decoded, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
				if err != nil {
					return nil, eris.Wrap(err, "gemini: decode image")
				}
				return decoded, nil
			}
		}
	}
	return nil, eris.New("gemini: no image in response")
}
