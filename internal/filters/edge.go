package filters

import (
	"context"
	"math"

	"gocv.io/x/gocv"

	"github.com/gabriel-dinizz/computer-vision-pipeline/internal/opencv/conversion"
	"github.com/gabriel-dinizz/computer-vision-pipeline/internal/opencv/safe"
	"github.com/gabriel-dinizz/computer-vision-pipeline/internal/parallel"
)

// applyEdgeEnhance adds a scaled Sobel gradient magnitude onto every
// channel. The gradient is computed once on the grayscale reduction and
// shared read-only by all row workers.
func (d *Dispatcher) applyEdgeEnhance(ctx context.Context, src *safe.Mat, params Params) (*safe.Mat, error) {
	gray, err := conversion.ConvertToGrayscale(src)
	if err != nil {
		return nil, err
	}
	defer gray.Close()

	grayMat := gray.GetMat()

	dx := gocv.NewMat()
	defer dx.Close()
	dy := gocv.NewMat()
	defer dy.Close()

	gocv.Sobel(grayMat, &dx, gocv.MatTypeCV64F, 1, 0, 3, 1, 0, gocv.BorderDefault)
	gocv.Sobel(grayMat, &dy, gocv.MatTypeCV64F, 0, 1, 3, 1, 0, gocv.BorderDefault)

	dst, err := safe.NewMat(src.Rows(), src.Cols(), src.Type())
	if err != nil {
		return nil, err
	}

	srcMat := src.GetMat()
	dstMat := dst.GetMat()
	channels := src.Channels()
	cols := src.Cols()
	strength := params.Strength

	err = parallel.Rows(ctx, src.Rows(), d.workers, func(rowStart, rowEnd int) error {
		for y := rowStart; y < rowEnd; y++ {
			for x := 0; x < cols; x++ {
				gx := dx.GetDoubleAt(y, x)
				gy := dy.GetDoubleAt(y, x)
				// Normalize the Sobel response back to intensity scale.
				magnitude := math.Sqrt(gx*gx+gy*gy) / 4.0

				for c := 0; c < channels; c++ {
					idx := x*channels + c
					orig := float64(srcMat.GetUCharAt(y, idx))
					dstMat.SetUCharAt(y, idx, clampToUint8(orig+strength*magnitude))
				}
			}
		}
		return nil
	})
	if err != nil {
		dst.Close()
		return nil, err
	}

	return dst, nil
}
