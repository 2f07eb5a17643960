package filters

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/gabriel-dinizz/computer-vision-pipeline/internal/convolution"
	"github.com/gabriel-dinizz/computer-vision-pipeline/internal/logger"
	"github.com/gabriel-dinizz/computer-vision-pipeline/internal/opencv/safe"
	"github.com/gabriel-dinizz/computer-vision-pipeline/internal/parallel"
)

// Dispatcher routes a filter selection to its implementation. Worker count
// and logging are fixed at construction; a Dispatcher is safe for reuse
// across images.
type Dispatcher struct {
	workers int
	log     logger.Logger
}

func NewDispatcher(workers int, log logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.NewNop()
	}
	return &Dispatcher{
		workers: parallel.Workers(workers),
		log:     log,
	}
}

func (d *Dispatcher) WorkerCount() int {
	return d.workers
}

// Apply runs the chosen filter over src and returns a new image with the
// same width, height, and channel count. src is read-only throughout.
func (d *Dispatcher) Apply(ctx context.Context, src *safe.Mat, choice Filter, params Params) (*safe.Mat, error) {
	if err := safe.ValidateMatForOperation(src, "filter application"); err != nil {
		return nil, errors.Wrap(convolution.ErrInvalidArgument, err.Error())
	}

	params = params.withDefaults()
	if err := params.validateFor(choice); err != nil {
		return nil, err
	}

	start := time.Now()

	var dst *safe.Mat
	var err error

	switch choice {
	case GaussianBlur:
		dst, err = d.applyGaussianBlur(ctx, src, params)
	case UnsharpMask:
		dst, err = d.applyUnsharpMask(ctx, src, params)
	case LaplacianSharpen:
		dst, err = d.applyLaplacianSharpen(ctx, src, params)
	case BilateralDenoise:
		dst, err = d.applyBilateralDenoise(ctx, src, params)
	case CLAHEEnhance:
		dst, err = d.applyCLAHE(ctx, src, params)
	case EdgeEnhance:
		dst, err = d.applyEdgeEnhance(ctx, src, params)
	default:
		return nil, errors.Wrapf(ErrUnsupportedFilter, "%d", int(choice))
	}

	if err != nil {
		return nil, errors.Wrapf(err, "%s failed", choice)
	}

	d.log.Debug("FilterDispatcher", "filter applied", map[string]interface{}{
		"filter":     choice.String(),
		"elapsed_ms": time.Since(start).Milliseconds(),
		"workers":    d.workers,
		"width":      dst.Cols(),
		"height":     dst.Rows(),
		"channels":   dst.Channels(),
	})

	return dst, nil
}

// splitChannels clones src into per-channel planes. The caller owns the
// returned Mats.
func splitChannels(src *safe.Mat) []gocv.Mat {
	srcMat := src.GetMat()
	return gocv.Split(srcMat)
}

func closePlanes(planes []gocv.Mat) {
	for i := range planes {
		planes[i].Close()
	}
}

func mergePlanes(planes []gocv.Mat, rows, cols int, matType gocv.MatType) (*safe.Mat, error) {
	dst, err := safe.NewMat(rows, cols, matType)
	if err != nil {
		return nil, err
	}

	dstMat := dst.GetMat()
	gocv.Merge(planes, &dstMat)
	return dst, nil
}

func clampToUint8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
