package quality

import (
	"github.com/gabriel-dinizz/computer-vision-pipeline/internal/filters"
)

// Fixed decision thresholds. These are empirically chosen cut-points, not
// configuration; downstream behavior depends on them being exactly these
// values.
const (
	blurVarianceThreshold = 100.0
	noiseLevelThreshold   = 15.0
	brightnessLow         = 50.0
	brightnessHigh        = 200.0

	// Report-only: flags a low_contrast issue but never changes the
	// selected filter.
	contrastLowThreshold = 30.0
)

// Select maps metrics to a filter with an ordered first-match policy.
// The rules are evaluated exactly once, in this order, with no
// combination logic.
func Select(m Metrics) (filters.Filter, string) {
	switch {
	case m.BlurVariance < blurVarianceThreshold:
		return filters.UnsharpMask, "image appears blurry"
	case m.NoiseLevel > noiseLevelThreshold:
		return filters.BilateralDenoise, "image appears noisy"
	case m.Brightness < brightnessLow || m.Brightness > brightnessHigh:
		return filters.CLAHEEnhance, "poor contrast/lighting"
	default:
		return filters.EdgeEnhance, "good quality, improve detail"
	}
}

// issues lists every quality problem the metrics reveal, independent of
// which single filter the policy picks.
func issues(m Metrics) []string {
	var found []string
	if m.BlurVariance < blurVarianceThreshold {
		found = append(found, "blurry")
	}
	if m.NoiseLevel > noiseLevelThreshold {
		found = append(found, "noisy")
	}
	if m.Brightness < brightnessLow {
		found = append(found, "too_dark")
	}
	if m.Brightness > brightnessHigh {
		found = append(found, "too_bright")
	}
	if m.Contrast < contrastLowThreshold {
		found = append(found, "low_contrast")
	}
	return found
}
