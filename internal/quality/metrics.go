// Package quality computes scalar image-quality metrics and maps them to
// a recommended corrective filter through a fixed, ordered decision
// policy.
package quality

import (
	"image"
	"math"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/gabriel-dinizz/computer-vision-pipeline/internal/filters"
	"github.com/gabriel-dinizz/computer-vision-pipeline/internal/logger"
	"github.com/gabriel-dinizz/computer-vision-pipeline/internal/opencv/conversion"
	"github.com/gabriel-dinizz/computer-vision-pipeline/internal/opencv/safe"
)

// Metrics holds the per-image quality measurements. All values are
// computed fresh for each image; nothing is persisted between calls.
type Metrics struct {
	// Variance of the Laplacian response. Higher means sharper.
	BlurVariance float64
	// Mean grayscale intensity on the 0-255 scale.
	Brightness float64
	// Grayscale standard deviation. Reported only; the selection policy
	// does not read it.
	Contrast float64
	// Standard deviation of the residual between the grayscale image and
	// a locally Gaussian-smoothed version of itself.
	NoiseLevel float64

	Width  int
	Height int
}

// Assessment couples the metrics with the recommended filter and the
// textual rationale for the choice.
type Assessment struct {
	Metrics     Metrics
	Recommended filters.Filter
	Rationale   string
	Issues      []string
}

// Assessor computes metrics and recommendations. Reporting verbosity is
// fixed at construction; Assess itself is a pure function of the input
// image.
type Assessor struct {
	log     logger.Logger
	verbose bool
}

func NewAssessor(log logger.Logger, verbose bool) *Assessor {
	if log == nil {
		log = logger.NewNop()
	}
	return &Assessor{log: log, verbose: verbose}
}

// Assess computes the quality metrics for src and applies the selection
// policy. The caller is responsible for rejecting malformed or empty
// images before invocation; a failed grayscale reduction is surfaced as
// an error rather than recovered.
func (a *Assessor) Assess(src *safe.Mat) (*Assessment, error) {
	gray, err := conversion.ConvertToGrayscale(src)
	if err != nil {
		return nil, errors.Wrap(err, "quality assessment requires a decodable image")
	}
	defer gray.Close()

	metrics := Metrics{
		Width:  gray.Cols(),
		Height: gray.Rows(),
	}

	grayMat := gray.GetMat()

	metrics.Brightness, metrics.Contrast = intensityStats(grayMat)
	metrics.BlurVariance = laplacianVariance(grayMat)
	metrics.NoiseLevel = residualNoise(grayMat)

	recommended, rationale := Select(metrics)

	assessment := &Assessment{
		Metrics:     metrics,
		Recommended: recommended,
		Rationale:   rationale,
		Issues:      issues(metrics),
	}

	if a.verbose {
		a.log.Info("QualityAssessor", "image assessed", map[string]interface{}{
			"resolution":    image.Point{X: metrics.Width, Y: metrics.Height},
			"blur_variance": metrics.BlurVariance,
			"brightness":    metrics.Brightness,
			"contrast":      metrics.Contrast,
			"noise_level":   metrics.NoiseLevel,
			"recommended":   recommended.String(),
			"rationale":     rationale,
			"issues":        assessment.Issues,
		})
	}

	return assessment, nil
}

// intensityStats returns the mean and standard deviation of a grayscale
// Mat in one pass.
func intensityStats(gray gocv.Mat) (mean, stddev float64) {
	rows := gray.Rows()
	cols := gray.Cols()
	total := float64(rows * cols)

	sum := 0.0
	sumSq := 0.0
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			v := float64(gray.GetUCharAt(y, x))
			sum += v
			sumSq += v * v
		}
	}

	mean = sum / total
	variance := sumSq/total - mean*mean
	if variance < 0 {
		variance = 0
	}
	return mean, math.Sqrt(variance)
}

// laplacianVariance measures sharpness as the variance of the
// second-derivative response: few sharp edges produce a flat response and
// a low variance.
func laplacianVariance(gray gocv.Mat) float64 {
	laplacian := gocv.NewMat()
	defer laplacian.Close()
	gocv.Laplacian(gray, &laplacian, gocv.MatTypeCV64F, 1, 1, 0, gocv.BorderDefault)

	rows := laplacian.Rows()
	cols := laplacian.Cols()
	total := float64(rows * cols)

	sum := 0.0
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			sum += laplacian.GetDoubleAt(y, x)
		}
	}
	mean := sum / total

	sumSqDiff := 0.0
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			diff := laplacian.GetDoubleAt(y, x) - mean
			sumSqDiff += diff * diff
		}
	}

	return sumSqDiff / total
}

// residualNoise smooths the grayscale image with a small 5-tap Gaussian
// and takes the standard deviation of the residual. Smooth regions leave
// only sensor noise in the residual.
func residualNoise(gray gocv.Mat) float64 {
	smoothed := gocv.NewMat()
	defer smoothed.Close()
	gocv.GaussianBlur(gray, &smoothed, image.Pt(5, 5), 1.0, 1.0, gocv.BorderDefault)

	rows := gray.Rows()
	cols := gray.Cols()
	total := float64(rows * cols)

	sum := 0.0
	sumSq := 0.0
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			residual := float64(gray.GetUCharAt(y, x)) - float64(smoothed.GetUCharAt(y, x))
			sum += residual
			sumSq += residual * residual
		}
	}

	mean := sum / total
	variance := sumSq/total - mean*mean
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}
