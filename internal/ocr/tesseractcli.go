package ocr

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/rotisserie/eris"
)

// TesseractCLI extracts text by shelling out to the tesseract binary. This
// avoids the cgo dependency of the in-process bindings at the cost of a
// process spawn per image.
type TesseractCLI struct {
	binPath  string
	language string
}

// NewTesseractCLI creates a CLI-backed extractor. If binPath is empty,
// "tesseract" is used.
func NewTesseractCLI(binPath, language string) *TesseractCLI {
	if binPath == "" {
		binPath = "tesseract"
	}
	if language == "" {
		language = "eng"
	}
	return &TesseractCLI{binPath: binPath, language: language}
}

// ExtractText runs `tesseract <image> stdout` and returns the recognized
// text.
func (t *TesseractCLI) ExtractText(ctx context.Context, imagePath string) (string, error) {
	cmd := exec.CommandContext(ctx, t.binPath, imagePath, "stdout", "-l", t.language)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", eris.Wrapf(err, "ocr: tesseract failed for %s: %s", imagePath, stderr.String())
	}

	return stdout.String(), nil
}
