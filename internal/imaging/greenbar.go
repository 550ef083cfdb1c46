package imaging

import "image"

// RemoveRowBands suppresses horizontal banding from striped (greenbar)
// background paper while preserving foreground marks. Each row is processed
// independently against its own mean intensity:
//
//   - pixels strictly brighter than the mean are pushed toward white:
//     255 - min(255, 2*(pixel-mean))
//   - pixels at or below the mean are pushed toward black:
//     min(255, 3*(mean-pixel))
//
// A pixel exactly equal to the row mean lands in the second branch and
// comes out black. That equality behavior is part of the filter's contract;
// downstream OCR tuning depends on it.
func RemoveRowBands(src *image.Gray) *image.Gray {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return out
	}

	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w]

		var sum int
		for _, p := range row {
			sum += int(p)
		}
		mean := sum / w

		outRow := out.Pix[y*out.Stride : y*out.Stride+w]
		for x, p := range row {
			v := int(p)
			if v > mean {
				diff := (v - mean) * 2
				if diff > 255 {
					diff = 255
				}
				outRow[x] = uint8(255 - diff)
			} else {
				diff := (mean - v) * 3
				if diff > 255 {
					diff = 255
				}
				outRow[x] = uint8(diff)
			}
		}
	}
	return out
}
