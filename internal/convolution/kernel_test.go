package convolution

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestNewGaussianKernelNormalization(t *testing.T) {
	cases := []struct {
		name  string
		size  int
		sigma float64
	}{
		{"3x3 sigma 0.8", 3, 0.8},
		{"5x5 sigma 1.0", 5, 1.0},
		{"7x7 sigma 1.5", 7, 1.5},
		{"9x9 sigma 2.0", 9, 2.0},
		{"15x15 sigma 5.0", 15, 5.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			kernel, err := NewGaussianKernel(tc.size, tc.sigma)
			assert.NoError(t, err)
			assert.Equal(t, tc.size, kernel.Size())
			assert.InDelta(t, 1.0, kernel.Sum(), 1e-6)

			for i := 0; i < tc.size; i++ {
				for j := 0; j < tc.size; j++ {
					assert.GreaterOrEqual(t, kernel.At(i, j), 0.0)
				}
			}
		})
	}
}

func TestNewGaussianKernelSymmetry(t *testing.T) {
	kernel, err := NewGaussianKernel(7, 1.4)
	assert.NoError(t, err)

	size := kernel.Size()
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			rotated := kernel.At(size-1-i, size-1-j)
			assert.InDelta(t, kernel.At(i, j), rotated, 1e-12,
				"kernel not symmetric under 180 degree rotation at (%d,%d)", i, j)
		}
	}

	// Center weight dominates.
	center := size / 2
	assert.Greater(t, kernel.At(center, center), kernel.At(0, 0))
}

func TestNewGaussianKernelInvalidArguments(t *testing.T) {
	cases := []struct {
		name  string
		size  int
		sigma float64
	}{
		{"even size", 4, 1.0},
		{"zero size", 0, 1.0},
		{"negative size", -3, 1.0},
		{"zero sigma", 5, 0},
		{"negative sigma", 5, -1.5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewGaussianKernel(tc.size, tc.sigma)
			assert.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidArgument))

			_, err = NewGaussianKernel1D(tc.size, tc.sigma)
			assert.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidArgument))
		})
	}
}

func TestNewGaussianKernel1DProfile(t *testing.T) {
	kernel, err := NewGaussianKernel1D(5, 1.0)
	assert.NoError(t, err)
	assert.InDelta(t, 1.0, kernel.Sum(), 1e-6)

	// Radial profile is symmetric about the center and peaks there.
	for i := 0; i < kernel.Size(); i++ {
		assert.InDelta(t, kernel.At(i), kernel.At(kernel.Size()-1-i), 1e-12)
	}
	center := kernel.Size() / 2
	assert.Greater(t, kernel.At(center), kernel.At(0))
}
