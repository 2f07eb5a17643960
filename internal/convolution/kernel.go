// Package convolution implements the Gaussian kernel generator and the two
// convolution paths used by the Gaussian blur filter: a reference full 2-D
// convolution and an algebraically equivalent separable variant that runs
// two 1-D passes.
package convolution

import (
	"math"

	"github.com/pkg/errors"
)

// ErrInvalidArgument marks construction and invocation failures caused by
// bad caller input: even or non-positive kernel sizes, sigma <= 0, empty
// images. Checked with errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")

// Kernel is a square, odd-sized Gaussian convolution kernel whose weights
// sum to 1. Immutable after construction and safe to share across workers.
type Kernel struct {
	size    int
	sigma   float64
	weights [][]float64
}

// NewGaussianKernel builds a normalized size x size Gaussian kernel.
// The 1/(2*pi*sigma^2) constant cancels during normalization and is
// omitted.
func NewGaussianKernel(size int, sigma float64) (*Kernel, error) {
	if err := validateKernelParams(size, sigma); err != nil {
		return nil, err
	}

	weights := make([][]float64, size)
	center := size / 2
	sum := 0.0

	for i := 0; i < size; i++ {
		weights[i] = make([]float64, size)
		for j := 0; j < size; j++ {
			x := float64(i - center)
			y := float64(j - center)
			value := math.Exp(-(x*x + y*y) / (2.0 * sigma * sigma))
			weights[i][j] = value
			sum += value
		}
	}

	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			weights[i][j] /= sum
		}
	}

	return &Kernel{size: size, sigma: sigma, weights: weights}, nil
}

func (k *Kernel) Size() int   { return k.size }
func (k *Kernel) Radius() int { return k.size / 2 }

func (k *Kernel) Sigma() float64 { return k.sigma }

// At returns the weight at kernel row i, column j.
func (k *Kernel) At(i, j int) float64 { return k.weights[i][j] }

// Sum returns the total of all weights. Always 1 within floating-point
// tolerance for a freshly built kernel.
func (k *Kernel) Sum() float64 {
	sum := 0.0
	for i := 0; i < k.size; i++ {
		for j := 0; j < k.size; j++ {
			sum += k.weights[i][j]
		}
	}
	return sum
}

// Kernel1D is the radial profile of the 2-D Gaussian, normalized
// independently so its weights sum to 1. Used by the separable path.
type Kernel1D struct {
	size    int
	sigma   float64
	weights []float64
}

func NewGaussianKernel1D(size int, sigma float64) (*Kernel1D, error) {
	if err := validateKernelParams(size, sigma); err != nil {
		return nil, err
	}

	weights := make([]float64, size)
	center := size / 2
	sum := 0.0

	for i := 0; i < size; i++ {
		x := float64(i - center)
		value := math.Exp(-(x * x) / (2.0 * sigma * sigma))
		weights[i] = value
		sum += value
	}

	for i := range weights {
		weights[i] /= sum
	}

	return &Kernel1D{size: size, sigma: sigma, weights: weights}, nil
}

func (k *Kernel1D) Size() int   { return k.size }
func (k *Kernel1D) Radius() int { return k.size / 2 }

func (k *Kernel1D) Sigma() float64 { return k.sigma }

func (k *Kernel1D) At(i int) float64 { return k.weights[i] }

func (k *Kernel1D) Sum() float64 {
	sum := 0.0
	for _, w := range k.weights {
		sum += w
	}
	return sum
}

func validateKernelParams(size int, sigma float64) error {
	if size <= 0 {
		return errors.Wrapf(ErrInvalidArgument, "kernel size must be positive, got %d", size)
	}
	if size%2 == 0 {
		return errors.Wrapf(ErrInvalidArgument, "kernel size must be odd, got %d", size)
	}
	if sigma <= 0 {
		return errors.Wrapf(ErrInvalidArgument, "sigma must be positive, got %g", sigma)
	}
	return nil
}
