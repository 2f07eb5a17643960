package filters

import (
	"context"
	"image"

	"gocv.io/x/gocv"

	"github.com/gabriel-dinizz/computer-vision-pipeline/internal/opencv/safe"
	"github.com/gabriel-dinizz/computer-vision-pipeline/internal/parallel"
)

// applyUnsharpMask amplifies the high-frequency residual: the OpenCV
// Gaussian primitive produces the low-pass version, then a pixel-parallel
// combine adds strength * (original - blurred) back onto the original.
// With the default strength 0.5 this matches addWeighted(1.5, -0.5).
func (d *Dispatcher) applyUnsharpMask(ctx context.Context, src *safe.Mat, params Params) (*safe.Mat, error) {
	srcMat := src.GetMat()

	blurred := gocv.NewMat()
	defer blurred.Close()

	// Zero kernel size lets OpenCV derive the window from sigma.
	gocv.GaussianBlur(srcMat, &blurred, image.Pt(0, 0), params.Sigma, params.Sigma, gocv.BorderDefault)

	dst, err := safe.NewMat(src.Rows(), src.Cols(), src.Type())
	if err != nil {
		return nil, err
	}
	dstMat := dst.GetMat()

	rowBytes := src.Cols() * src.Channels()
	strength := params.Strength

	err = parallel.Rows(ctx, src.Rows(), d.workers, func(rowStart, rowEnd int) error {
		for y := rowStart; y < rowEnd; y++ {
			for i := 0; i < rowBytes; i++ {
				orig := float64(srcMat.GetUCharAt(y, i))
				low := float64(blurred.GetUCharAt(y, i))
				dstMat.SetUCharAt(y, i, clampToUint8(orig+strength*(orig-low)))
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
