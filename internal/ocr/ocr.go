package ocr

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/softwarewrighter/scan3data/internal/config"
)

// Extractor extracts text content from processed scan images. The engine
// itself is a black box: image in, text or error out.
type Extractor interface {
	ExtractText(ctx context.Context, imagePath string) (string, error)
}

// NewExtractor creates an Extractor based on config.
func NewExtractor(cfg config.OCRConfig) (Extractor, error) {
	switch cfg.Provider {
	case "tesseract", "":
		return NewTesseract(cfg.Language), nil
	case "tesseract-cli":
		return NewTesseractCLI(cfg.TesseractPath, cfg.Language), nil
	default:
		return nil, eris.Errorf("ocr: unknown provider %q", cfg.Provider)
	}
}
