// Package filters defines the six corrective filters of the preprocessing
// stage and the dispatcher that routes a selection to its implementation.
// The Gaussian blur runs on the in-house convolution engine; the other
// five delegate the numerical work to OpenCV primitives and keep only the
// parallel combine loops here.
package filters

import (
	"github.com/pkg/errors"

	"github.com/gabriel-dinizz/computer-vision-pipeline/internal/convolution"
)

// ErrUnsupportedFilter marks a filter identifier outside the six
// recognized values. An explicit unrecognized request is a configuration
// error and is never silently replaced.
var ErrUnsupportedFilter = errors.New("unsupported filter")

// Filter enumerates the corrective filters. There is no shared mutable
// state between filters, so a tagged value dispatched through one switch
// replaces any class hierarchy.
type Filter int

const (
	GaussianBlur Filter = iota
	UnsharpMask
	LaplacianSharpen
	BilateralDenoise
	CLAHEEnhance
	EdgeEnhance
)

var filterNames = map[Filter]string{
	GaussianBlur:     "gaussian-blur",
	UnsharpMask:      "unsharp-mask",
	LaplacianSharpen: "laplacian-sharpen",
	BilateralDenoise: "bilateral-denoise",
	CLAHEEnhance:     "clahe-enhance",
	EdgeEnhance:      "edge-enhance",
}

func (f Filter) String() string {
	if name, ok := filterNames[f]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether f is one of the six recognized filters.
func (f Filter) Valid() bool {
	_, ok := filterNames[f]
	return ok
}

// Parse resolves a CLI filter name to its identifier. Short aliases match
// the original tool's argv values.
func Parse(name string) (Filter, error) {
	switch name {
	case "gaussian-blur", "blur":
		return GaussianBlur, nil
	case "unsharp-mask", "sharpen":
		return UnsharpMask, nil
	case "laplacian-sharpen", "laplacian":
		return LaplacianSharpen, nil
	case "bilateral-denoise", "denoise":
		return BilateralDenoise, nil
	case "clahe-enhance", "clahe":
		return CLAHEEnhance, nil
	case "edge-enhance", "edge":
		return EdgeEnhance, nil
	}
	return 0, errors.Wrapf(ErrUnsupportedFilter, "%q", name)
}

// Params carries the tunables recognized per filter. Zero values are
// replaced with the defaults below at dispatch time, so a caller may set
// only the fields its chosen filter reads.
type Params struct {
	// Gaussian blur.
	KernelSize int
	// Gaussian blur and unsharp mask.
	Sigma float64
	// Unsharp mask, Laplacian sharpen, edge enhancement.
	Strength float64
	// Bilateral denoise.
	Diameter   int
	SigmaColor float64
	SigmaSpace float64
	// CLAHE.
	ClipLimit    float64
	TileGridSize int
}

// DefaultParams returns the tunables the original pipeline shipped with.
func DefaultParams() Params {
	return Params{
		KernelSize:   5,
		Sigma:        1.0,
		Strength:     0.5,
		Diameter:     9,
		SigmaColor:   75.0,
		SigmaSpace:   75.0,
		ClipLimit:    2.0,
		TileGridSize: 8,
	}
}

func (p Params) withDefaults() Params {
	def := DefaultParams()
	if p.KernelSize == 0 {
		p.KernelSize = def.KernelSize
	}
	if p.Sigma == 0 {
		p.Sigma = def.Sigma
	}
	if p.Strength == 0 {
		p.Strength = def.Strength
	}
	if p.Diameter == 0 {
		p.Diameter = def.Diameter
	}
	if p.SigmaColor == 0 {
		p.SigmaColor = def.SigmaColor
	}
	if p.SigmaSpace == 0 {
		p.SigmaSpace = def.SigmaSpace
	}
	if p.ClipLimit == 0 {
		p.ClipLimit = def.ClipLimit
	}
	if p.TileGridSize == 0 {
		p.TileGridSize = def.TileGridSize
	}
	return p
}

func (p Params) validateFor(f Filter) error {
	switch f {
	case GaussianBlur:
		if p.KernelSize <= 0 || p.KernelSize%2 == 0 {
			return errors.Wrapf(convolution.ErrInvalidArgument,
				"kernel size must be a positive odd integer, got %d", p.KernelSize)
		}
		if p.Sigma <= 0 {
			return errors.Wrapf(convolution.ErrInvalidArgument,
				"sigma must be positive, got %g", p.Sigma)
		}
	case UnsharpMask:
		if p.Sigma <= 0 {
			return errors.Wrapf(convolution.ErrInvalidArgument,
				"sigma must be positive, got %g", p.Sigma)
		}
		if p.Strength < 0 {
			return errors.Wrapf(convolution.ErrInvalidArgument,
				"strength must be non-negative, got %g", p.Strength)
		}
	case LaplacianSharpen, EdgeEnhance:
		if p.Strength < 0 {
			return errors.Wrapf(convolution.ErrInvalidArgument,
				"strength must be non-negative, got %g", p.Strength)
		}
	case BilateralDenoise:
		if p.Diameter <= 0 {
			return errors.Wrapf(convolution.ErrInvalidArgument,
				"diameter must be positive, got %d", p.Diameter)
		}
		if p.SigmaColor <= 0 || p.SigmaSpace <= 0 {
			return errors.Wrapf(convolution.ErrInvalidArgument,
				"color/space sigmas must be positive, got %g/%g", p.SigmaColor, p.SigmaSpace)
		}
	case CLAHEEnhance:
		if p.ClipLimit <= 0 {
			return errors.Wrapf(convolution.ErrInvalidArgument,
				"clip limit must be positive, got %g", p.ClipLimit)
		}
		if p.TileGridSize <= 0 {
			return errors.Wrapf(convolution.ErrInvalidArgument,
				"tile grid size must be positive, got %d", p.TileGridSize)
		}
	}
	return nil
}
