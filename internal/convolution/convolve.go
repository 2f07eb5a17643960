package convolution

import (
	"math"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/gabriel-dinizz/computer-vision-pipeline/internal/opencv/conversion"
	"github.com/gabriel-dinizz/computer-vision-pipeline/internal/opencv/safe"
)

// Convolve2D applies the kernel to every interior pixel of src with the
// reference O(rows*cols*size^2) algorithm. Multi-channel input is reduced
// to grayscale first; the naive path does not convolve per channel.
//
// Border pixels within Radius() of any edge are not written and stay at
// the zero value of the freshly allocated output buffer. This asymmetric
// edge handling is the documented contract of the reference algorithm,
// not an oversight; callers needing filled borders must pad beforehand.
func Convolve2D(src *safe.Mat, kernel *Kernel) (*safe.Mat, error) {
	gray, err := grayscaleInput(src)
	if err != nil {
		return nil, err
	}
	defer gray.Close()

	dst, err := safe.NewMat(gray.Rows(), gray.Cols(), gocv.MatTypeCV8UC1)
	if err != nil {
		return nil, err
	}

	if err := Convolve2DInto(gray, dst, kernel); err != nil {
		dst.Close()
		return nil, err
	}

	return dst, nil
}

// Convolve2DInto convolves a single-channel src into dst, writing interior
// pixels only. Whatever dst held at the borders before the call is left
// untouched.
func Convolve2DInto(src, dst *safe.Mat, kernel *Kernel) error {
	if err := validateGraySrc(src); err != nil {
		return err
	}
	if dst == nil || dst.Rows() != src.Rows() || dst.Cols() != src.Cols() {
		return errors.Wrap(ErrInvalidArgument, "destination dimensions do not match source")
	}
	if dst.Channels() != 1 {
		return errors.Wrap(ErrInvalidArgument, "destination must be single channel")
	}

	return ConvolveRows(src, dst, kernel, kernel.Radius(), src.Rows()-kernel.Radius())
}

// ConvolveRows convolves the half-open row range [rowStart, rowEnd) of src
// into dst with the 2-D kernel. Rows outside the interior are clipped.
// Workers handing out disjoint row ranges may call this concurrently on
// the same destination: every write lands in a distinct row.
func ConvolveRows(src, dst *safe.Mat, kernel *Kernel, rowStart, rowEnd int) error {
	rows := src.Rows()
	cols := src.Cols()
	radius := kernel.Radius()
	size := kernel.Size()

	if rowStart < radius {
		rowStart = radius
	}
	if rowEnd > rows-radius {
		rowEnd = rows - radius
	}
	if rowStart >= rowEnd {
		return nil
	}

	srcMat := src.GetMat()
	dstMat := dst.GetMat()

	for i := rowStart; i < rowEnd; i++ {
		for j := radius; j < cols-radius; j++ {
			sum := 0.0
			for ki := 0; ki < size; ki++ {
				for kj := 0; kj < size; kj++ {
					row := i - radius + ki
					col := j - radius + kj
					sum += float64(srcMat.GetUCharAt(row, col)) * kernel.At(ki, kj)
				}
			}
			dstMat.SetUCharAt(i, j, clampToUint8(sum))
		}
	}

	return nil
}

// ConvolveSeparable applies the 1-D Gaussian profile horizontally into an
// intermediate buffer and then vertically into the output, producing the
// same interior values as Convolve2D (up to floating-point rounding) at
// O(rows*cols*size) cost. The horizontal pass leaves columns within
// Radius() of the left/right edge at zero, the vertical pass leaves rows
// within Radius() of the top/bottom edge at zero.
func ConvolveSeparable(src *safe.Mat, kernel *Kernel1D) (*safe.Mat, error) {
	gray, err := grayscaleInput(src)
	if err != nil {
		return nil, err
	}
	defer gray.Close()

	rows := gray.Rows()
	cols := gray.Cols()
	radius := kernel.Radius()
	size := kernel.Size()

	grayMat := gray.GetMat()

	// Horizontal pass. The intermediate buffer stays in float so the
	// vertical pass accumulates unrounded values.
	temp := make([]float64, rows*cols)
	for i := 0; i < rows; i++ {
		for j := radius; j < cols-radius; j++ {
			sum := 0.0
			for k := 0; k < size; k++ {
				col := j - radius + k
				sum += float64(grayMat.GetUCharAt(i, col)) * kernel.At(k)
			}
			temp[i*cols+j] = sum
		}
	}

	dst, err := safe.NewMat(rows, cols, gocv.MatTypeCV8UC1)
	if err != nil {
		return nil, err
	}
	dstMat := dst.GetMat()

	// Vertical pass over the intermediate buffer.
	for i := radius; i < rows-radius; i++ {
		for j := 0; j < cols; j++ {
			sum := 0.0
			for k := 0; k < size; k++ {
				row := i - radius + k
				sum += temp[row*cols+j] * kernel.At(k)
			}
			dstMat.SetUCharAt(i, j, clampToUint8(sum))
		}
	}

	return dst, nil
}

func grayscaleInput(src *safe.Mat) (*safe.Mat, error) {
	if src == nil || src.Empty() {
		return nil, errors.Wrap(ErrInvalidArgument, "input image is empty")
	}

	gray, err := conversion.ConvertToGrayscale(src)
	if err != nil {
		return nil, errors.Wrap(err, "grayscale reduction failed")
	}

	return gray, nil
}

func validateGraySrc(src *safe.Mat) error {
	if src == nil || src.Empty() {
		return errors.Wrap(ErrInvalidArgument, "input image is empty")
	}
	if src.Channels() != 1 {
		return errors.Wrap(ErrInvalidArgument, "source must be single channel")
	}
	return nil
}

func clampToUint8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}
