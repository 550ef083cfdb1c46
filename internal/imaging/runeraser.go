package imaging

import "image"

const (
	// defaultDarkThreshold separates "dark" run pixels from background.
	defaultDarkThreshold = 128
	// defaultRunDivisor sets the erasure length cutoff to width/3.
	defaultRunDivisor = 3
)

// EraseHorizontalRuns removes long horizontal dark runs that OCR would
// otherwise misread as dashes: printed rules and residual banding lines.
// A run is a maximal sequence of contiguous pixels in one row darker than
// threshold. Runs strictly longer than width/divisor are overwritten with
// white; runs at or below the cutoff are left untouched, including runs
// that terminate at the right edge.
func EraseHorizontalRuns(src *image.Gray, threshold uint8, divisor int) *image.Gray {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	if divisor <= 0 {
		divisor = defaultRunDivisor
	}
	maxRun := w / divisor

	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w]
		outRow := out.Pix[y*out.Stride : y*out.Stride+w]
		copy(outRow, row)

		runStart := -1
		for x := 0; x <= w; x++ {
			dark := x < w && row[x] < threshold
			if dark {
				if runStart < 0 {
					runStart = x
				}
				continue
			}
			if runStart >= 0 {
				if x-runStart > maxRun {
					for i := runStart; i < x; i++ {
						outRow[i] = 255
					}
				}
				runStart = -1
			}
		}
	}
	return out
}
