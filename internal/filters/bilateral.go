package filters

import (
	"context"

	"gocv.io/x/gocv"

	"github.com/gabriel-dinizz/computer-vision-pipeline/internal/opencv/safe"
	"github.com/gabriel-dinizz/computer-vision-pipeline/internal/parallel"
)

// applyBilateralDenoise delegates to the OpenCV bilateral primitive.
// Color input is split into planes processed concurrently, one worker per
// channel, with the merge waiting on the join barrier.
func (d *Dispatcher) applyBilateralDenoise(ctx context.Context, src *safe.Mat, params Params) (*safe.Mat, error) {
	if src.Channels() == 1 {
		dst, err := safe.NewMat(src.Rows(), src.Cols(), src.Type())
		if err != nil {
			return nil, err
		}

		srcMat := src.GetMat()
		dstMat := dst.GetMat()
		gocv.BilateralFilter(srcMat, &dstMat, params.Diameter, params.SigmaColor, params.SigmaSpace)
		return dst, nil
	}

	planes := splitChannels(src)
	defer closePlanes(planes)

	denoised := make([]gocv.Mat, len(planes))
	for i := range denoised {
		denoised[i] = gocv.NewMat()
	}
	defer closePlanes(denoised)

	err := parallel.Indexed(ctx, len(planes), func(i int) error {
		gocv.BilateralFilter(planes[i], &denoised[i], params.Diameter, params.SigmaColor, params.SigmaSpace)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return mergePlanes(denoised, src.Rows(), src.Cols(), src.Type())
}
