package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"image"

	"github.com/softwarewrighter/scan3data/internal/imaging"
	"github.com/softwarewrighter/scan3data/internal/model"
)

// HashImage computes the content fingerprint of a decoded raster image:
// the SHA-256 digest of its canonical 8-bit RGBA pixel bytes. Identical
// pixel content always hashes identically regardless of the source file
// format or in-memory representation.
func HashImage(img image.Image) model.Fingerprint {
	sum := sha256.Sum256(imaging.RawPixels(img))
	return model.Fingerprint(hex.EncodeToString(sum[:]))
}
