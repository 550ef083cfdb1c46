package imaging

import (
	"image"
	_ "image/jpeg"
	"image/png"
	"os"

	"github.com/rotisserie/eris"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Decode reads and decodes a raster image from disk. PNG, JPEG, TIFF and
// BMP are supported; flatbed scanner output is frequently TIFF or BMP.
func Decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "imaging: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, eris.Wrapf(err, "imaging: decode %s", path)
	}
	return img, nil
}

// EncodePNG writes an image to disk as PNG.
func EncodePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "imaging: create %s", path)
	}

	if err := png.Encode(f, img); err != nil {
		f.Close() //nolint:errcheck,gosec
		return eris.Wrapf(err, "imaging: encode %s", path)
	}
	if err := f.Close(); err != nil {
		return eris.Wrapf(err, "imaging: close %s", path)
	}
	return nil
}
