package filters

import (
	"context"

	"gocv.io/x/gocv"

	"github.com/gabriel-dinizz/computer-vision-pipeline/internal/convolution"
	"github.com/gabriel-dinizz/computer-vision-pipeline/internal/opencv/safe"
	"github.com/gabriel-dinizz/computer-vision-pipeline/internal/parallel"
)

// applyGaussianBlur runs the reference 2-D convolution from the in-house
// engine, fanning rows out across the worker pool. Color input is split
// into planes so the output keeps the source channel count; each plane
// carries the engine's zero-border contract.
func (d *Dispatcher) applyGaussianBlur(ctx context.Context, src *safe.Mat, params Params) (*safe.Mat, error) {
	kernel, err := convolution.NewGaussianKernel(params.KernelSize, params.Sigma)
	if err != nil {
		return nil, err
	}

	if src.Channels() == 1 {
		return d.blurPlane(ctx, src, kernel)
	}

	planes := splitChannels(src)
	defer closePlanes(planes)

	blurred := make([]gocv.Mat, len(planes))
	defer closePlanes(blurred)

	for i := range planes {
		plane, err := safe.NewMatFromMat(planes[i])
		if err != nil {
			return nil, err
		}

		out, err := d.blurPlane(ctx, plane, kernel)
		plane.Close()
		if err != nil {
			return nil, err
		}

		blurred[i] = out.GetMat().Clone()
		out.Close()
	}

	return mergePlanes(blurred, src.Rows(), src.Cols(), src.Type())
}

func (d *Dispatcher) blurPlane(ctx context.Context, plane *safe.Mat, kernel *convolution.Kernel) (*safe.Mat, error) {
	// Zero-initialized destination: border pixels stay zero because the
	// reference convolution never writes them.
	dst, err := safe.NewMat(plane.Rows(), plane.Cols(), gocv.MatTypeCV8UC1)
	if err != nil {
		return nil, err
	}

	err = parallel.Rows(ctx, plane.Rows(), d.workers, func(rowStart, rowEnd int) error {
		return convolution.ConvolveRows(plane, dst, kernel, rowStart, rowEnd)
	})
	if err != nil {
		dst.Close()
		return nil, err
	}

	return dst, nil
}
