package convolution

import (
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"gocv.io/x/gocv"

	"github.com/gabriel-dinizz/computer-vision-pipeline/internal/opencv/safe"
)

func makeGrayMat(t *testing.T, rows, cols int, value func(y, x int) uint8) *safe.Mat {
	t.Helper()

	mat, err := safe.NewMat(rows, cols, gocv.MatTypeCV8UC1)
	assert.NoError(t, err)

	raw := mat.GetMat()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			raw.SetUCharAt(y, x, value(y, x))
		}
	}
	return mat
}

func TestConvolve2DFlatImage(t *testing.T) {
	src := makeGrayMat(t, 20, 20, func(y, x int) uint8 { return 128 })
	defer src.Close()

	kernel, err := NewGaussianKernel(5, 1.0)
	assert.NoError(t, err)

	dst, err := Convolve2D(src, kernel)
	assert.NoError(t, err)
	defer dst.Close()

	// A normalized kernel over a flat region reproduces the flat value.
	raw := dst.GetMat()
	radius := kernel.Radius()
	for y := radius; y < 20-radius; y++ {
		for x := radius; x < 20-radius; x++ {
			assert.InDelta(t, 128, float64(raw.GetUCharAt(y, x)), 1,
				"interior pixel (%d,%d)", y, x)
		}
	}
}

func TestConvolve2DAndSeparableAgreeOnInterior(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	src := makeGrayMat(t, 32, 48, func(y, x int) uint8 {
		return uint8(rng.Intn(256))
	})
	defer src.Close()

	kernel, err := NewGaussianKernel(5, 1.2)
	assert.NoError(t, err)
	kernel1D, err := NewGaussianKernel1D(5, 1.2)
	assert.NoError(t, err)

	full, err := Convolve2D(src, kernel)
	assert.NoError(t, err)
	defer full.Close()

	separable, err := ConvolveSeparable(src, kernel1D)
	assert.NoError(t, err)
	defer separable.Close()

	fullRaw := full.GetMat()
	sepRaw := separable.GetMat()
	radius := kernel.Radius()

	for y := radius; y < 32-radius; y++ {
		for x := radius; x < 48-radius; x++ {
			diff := int(fullRaw.GetUCharAt(y, x)) - int(sepRaw.GetUCharAt(y, x))
			if diff < 0 {
				diff = -diff
			}
			assert.LessOrEqual(t, diff, 1,
				"2-D and separable paths diverge at (%d,%d)", y, x)
		}
	}
}

func TestConvolve2DIntoLeavesBorderSentinel(t *testing.T) {
	const sentinel = 77

	src := makeGrayMat(t, 16, 16, func(y, x int) uint8 { return uint8(x * 16) })
	defer src.Close()

	dst := makeGrayMat(t, 16, 16, func(y, x int) uint8 { return sentinel })
	defer dst.Close()

	kernel, err := NewGaussianKernel(5, 1.0)
	assert.NoError(t, err)

	assert.NoError(t, Convolve2DInto(src, dst, kernel))

	raw := dst.GetMat()
	radius := kernel.Radius()
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			border := y < radius || y >= 16-radius || x < radius || x >= 16-radius
			if border {
				assert.Equal(t, uint8(sentinel), raw.GetUCharAt(y, x),
					"border pixel (%d,%d) must keep its pre-fill value", y, x)
			} else {
				assert.NotEqual(t, uint8(sentinel), raw.GetUCharAt(y, x),
					"interior pixel (%d,%d) must be written", y, x)
			}
		}
	}
}

func TestConvolveSeparableZeroBorder(t *testing.T) {
	src := makeGrayMat(t, 16, 16, func(y, x int) uint8 { return 200 })
	defer src.Close()

	kernel1D, err := NewGaussianKernel1D(5, 1.0)
	assert.NoError(t, err)

	dst, err := ConvolveSeparable(src, kernel1D)
	assert.NoError(t, err)
	defer dst.Close()

	raw := dst.GetMat()
	radius := kernel1D.Radius()
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			border := y < radius || y >= 16-radius || x < radius || x >= 16-radius
			if border {
				assert.Equal(t, uint8(0), raw.GetUCharAt(y, x),
					"unconvolved border pixel (%d,%d) stays zero", y, x)
			}
		}
	}
}

func TestConvolve2DReducesMultiChannelInput(t *testing.T) {
	src, err := safe.NewMat(24, 24, gocv.MatTypeCV8UC3)
	assert.NoError(t, err)
	defer src.Close()

	raw := src.GetMat()
	for y := 0; y < 24; y++ {
		for x := 0; x < 24; x++ {
			raw.SetUCharAt(y, x*3, 90)
			raw.SetUCharAt(y, x*3+1, 120)
			raw.SetUCharAt(y, x*3+2, 150)
		}
	}

	kernel, err := NewGaussianKernel(3, 0.8)
	assert.NoError(t, err)

	dst, err := Convolve2D(src, kernel)
	assert.NoError(t, err)
	defer dst.Close()

	assert.Equal(t, 1, dst.Channels())
	assert.Equal(t, 24, dst.Rows())
	assert.Equal(t, 24, dst.Cols())
}

func TestConvolveRejectsEmptyInput(t *testing.T) {
	kernel, err := NewGaussianKernel(3, 1.0)
	assert.NoError(t, err)
	kernel1D, err := NewGaussianKernel1D(3, 1.0)
	assert.NoError(t, err)

	_, err = Convolve2D(nil, kernel)
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = ConvolveSeparable(nil, kernel1D)
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	closed, err := safe.NewMat(8, 8, gocv.MatTypeCV8UC1)
	assert.NoError(t, err)
	closed.Close()

	_, err = Convolve2D(closed, kernel)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}
