package filters

import (
	"context"

	"gocv.io/x/gocv"

	"github.com/gabriel-dinizz/computer-vision-pipeline/internal/opencv/safe"
	"github.com/gabriel-dinizz/computer-vision-pipeline/internal/parallel"
)

// applyLaplacianSharpen subtracts a scaled Laplacian response from the
// original: edges produce strong second-derivative values, so removing
// them steepens transitions. The Laplacian itself comes from the OpenCV
// primitive in double precision; the combine runs pixel-parallel per
// plane.
func (d *Dispatcher) applyLaplacianSharpen(ctx context.Context, src *safe.Mat, params Params) (*safe.Mat, error) {
	if src.Channels() == 1 {
		srcMat := src.GetMat()
		out, err := d.sharpenPlane(ctx, srcMat, params.Strength)
		if err != nil {
			return nil, err
		}
		defer out.Close()

		return safe.NewMatFromMat(out)
	}

	planes := splitChannels(src)
	defer closePlanes(planes)

	sharpened := make([]gocv.Mat, len(planes))
	defer closePlanes(sharpened)

	for i := range planes {
		out, err := d.sharpenPlane(ctx, planes[i], params.Strength)
		if err != nil {
			return nil, err
		}
		sharpened[i] = out
	}

	return mergePlanes(sharpened, src.Rows(), src.Cols(), src.Type())
}

func (d *Dispatcher) sharpenPlane(ctx context.Context, plane gocv.Mat, strength float64) (gocv.Mat, error) {
	lap := gocv.NewMat()
	defer lap.Close()
	gocv.Laplacian(plane, &lap, gocv.MatTypeCV64F, 1, 1, 0, gocv.BorderDefault)

	rows := plane.Rows()
	cols := plane.Cols()
	out := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8UC1)

	err := parallel.Rows(ctx, rows, d.workers, func(rowStart, rowEnd int) error {
		for y := rowStart; y < rowEnd; y++ {
			for x := 0; x < cols; x++ {
				orig := float64(plane.GetUCharAt(y, x))
				response := lap.GetDoubleAt(y, x)
				out.SetUCharAt(y, x, clampToUint8(orig-strength*response))
			}
		}
		return nil
	})
	if err != nil {
		out.Close()
		return gocv.NewMat(), err
	}

	return out, nil
}
