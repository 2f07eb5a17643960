package filters

import (
	"context"
	"image"

	"gocv.io/x/gocv"

	"github.com/gabriel-dinizz/computer-vision-pipeline/internal/opencv/safe"
	"github.com/gabriel-dinizz/computer-vision-pipeline/internal/parallel"
)

// applyCLAHE equalizes contrast per channel with the OpenCV CLAHE
// primitive. CLAHE instances are not safe for concurrent use, so each
// channel worker builds its own; channels merge after the barrier.
func (d *Dispatcher) applyCLAHE(ctx context.Context, src *safe.Mat, params Params) (*safe.Mat, error) {
	tile := image.Point{X: params.TileGridSize, Y: params.TileGridSize}

	if src.Channels() == 1 {
		dst, err := safe.NewMat(src.Rows(), src.Cols(), src.Type())
		if err != nil {
			return nil, err
		}

		clahe := gocv.NewCLAHEWithParams(params.ClipLimit, tile)
		defer clahe.Close()

		srcMat := src.GetMat()
		dstMat := dst.GetMat()
		clahe.Apply(srcMat, &dstMat)
		return dst, nil
	}

	planes := splitChannels(src)
	defer closePlanes(planes)

	equalized := make([]gocv.Mat, len(planes))
	for i := range equalized {
		equalized[i] = gocv.NewMat()
	}
	defer closePlanes(equalized)

	err := parallel.Indexed(ctx, len(planes), func(i int) error {
		clahe := gocv.NewCLAHEWithParams(params.ClipLimit, tile)
		defer clahe.Close()

		clahe.Apply(planes[i], &equalized[i])
		return nil
	})
	if err != nil {
		return nil, err
	}

	return mergePlanes(equalized, src.Rows(), src.Cols(), src.Type())
}
