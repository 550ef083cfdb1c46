package imaging

import "image"

// FilterConfig carries the tunable parameters of the cleanup filters.
type FilterConfig struct {
	// DarkThreshold is the intensity below which a pixel counts as part of
	// a horizontal run.
	DarkThreshold uint8
	// RunDivisor sets the run erasure cutoff to width/RunDivisor.
	RunDivisor int
}

// DefaultFilterConfig returns the filter parameters tuned for greenbar
// listing scans.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		DarkThreshold: defaultDarkThreshold,
		RunDivisor:    defaultRunDivisor,
	}
}

// Preprocess runs the default cleanup chain on a scanned image: grayscale
// conversion, row-band removal, then horizontal run erasure. The output is
// full resolution with the same dimensions as the input.
func Preprocess(src image.Image, cfg FilterConfig) *image.Gray {
	gray := ToGray(src)
	banded := RemoveRowBands(gray)
	return EraseHorizontalRuns(banded, cfg.DarkThreshold, cfg.RunDivisor)
}
