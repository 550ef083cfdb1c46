package imaging

import (
	"image"
	"image/draw"
)

// ToGray converts any image to 8-bit grayscale using the standard luma
// conversion. The result shares no pixels with the input.
func ToGray(src image.Image) *image.Gray {
	if g, ok := src.(*image.Gray); ok {
		out := image.NewGray(g.Bounds())
		copy(out.Pix, g.Pix)
		return out
	}
	bounds := src.Bounds()
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, src, bounds.Min, draw.Src)
	return gray
}

// rawRGBA returns the canonical 8-bit RGBA byte layout of an image. Images
// that decode to different in-memory representations of the same pixel
// content produce identical byte sequences.
func rawRGBA(src image.Image) []byte {
	if rgba, ok := src.(*image.RGBA); ok && rgba.Stride == rgba.Rect.Dx()*4 {
		out := make([]byte, len(rgba.Pix))
		copy(out, rgba.Pix)
		return out
	}
	bounds := src.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), src, bounds.Min, draw.Src)
	return rgba.Pix
}

// RawPixels exposes the canonical pixel layout for fingerprinting.
func RawPixels(src image.Image) []byte {
	return rawRGBA(src)
}
