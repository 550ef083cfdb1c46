package ocr

import (
	"context"

	"github.com/otiai10/gosseract/v2"
	"github.com/rotisserie/eris"
)

// Tesseract extracts text using the in-process Tesseract bindings. A fresh
// client is created per call; gosseract clients are not safe for
// concurrent use.
type Tesseract struct {
	language      string
	clientFactory func() *gosseract.Client
}

// NewTesseract creates a Tesseract extractor. If language is empty, "eng"
// is used.
func NewTesseract(language string) *Tesseract {
	if language == "" {
		language = "eng"
	}
	return &Tesseract{
		language:      language,
		clientFactory: gosseract.NewClient,
	}
}

// ExtractText runs Tesseract recognition on the image at the given path.
func (t *Tesseract) ExtractText(ctx context.Context, imagePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", eris.Wrapf(err, "ocr: %s", imagePath)
	}

	client := t.clientFactory()
	defer client.Close() //nolint:errcheck

	if err := client.SetLanguage(t.language); err != nil {
		return "", eris.Wrapf(err, "ocr: set language %s", t.language)
	}
	if err := client.SetImage(imagePath); err != nil {
		return "", eris.Wrapf(err, "ocr: set image %s", imagePath)
	}

	text, err := client.Text()
	if err != nil {
		return "", eris.Wrapf(err, "ocr: recognize %s", imagePath)
	}
	return text, nil
}
