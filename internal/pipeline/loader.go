package pipeline

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/gabriel-dinizz/computer-vision-pipeline/internal/logger"
	"github.com/gabriel-dinizz/computer-vision-pipeline/internal/opencv/conversion"
	"github.com/gabriel-dinizz/computer-vision-pipeline/internal/opencv/safe"
)

// ImageData couples a decoded Mat with the metadata later stages report.
type ImageData struct {
	Mat      *safe.Mat
	Width    int
	Height   int
	Channels int
	Format   string
}

func (d *ImageData) Close() {
	if d != nil && d.Mat != nil {
		d.Mat.Close()
	}
}

type Loader struct {
	log logger.Logger
}

func NewLoader(log logger.Logger) *Loader {
	if log == nil {
		log = logger.NewNop()
	}
	return &Loader{log: log}
}

func (l *Loader) LoadFromFile(path string) (*ImageData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	l.log.Debug("ImageLoader", "image data read", map[string]interface{}{
		"path":       path,
		"size_bytes": len(data),
	})

	return l.LoadFromBytes(data, strings.ToLower(filepath.Ext(path)))
}

// LoadFromBytes decodes an encoded image. The standard library decode
// establishes the format name; OpenCV provides the Mat the filters work
// on. Grayscale sources stay single-channel.
func (l *Loader) LoadFromBytes(data []byte, extension string) (*ImageData, error) {
	img, stdFormat, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "decoding image")
	}

	mat, err := l.decodeMat(data, img)
	if err != nil {
		return nil, err
	}

	imageData := &ImageData{
		Mat:      mat,
		Width:    mat.Cols(),
		Height:   mat.Rows(),
		Channels: mat.Channels(),
		Format:   actualFormat(extension, stdFormat),
	}

	l.log.Info("ImageLoader", "image loaded", map[string]interface{}{
		"width":    imageData.Width,
		"height":   imageData.Height,
		"channels": imageData.Channels,
		"format":   imageData.Format,
	})

	return imageData, nil
}

func (l *Loader) decodeMat(data []byte, decoded image.Image) (*safe.Mat, error) {
	raw, err := gocv.IMDecode(data, gocv.IMReadAnyColor)
	if err == nil && !raw.Empty() {
		mat, wrapErr := safe.NewMatFromMat(raw)
		raw.Close()
		if wrapErr != nil {
			return nil, wrapErr
		}
		return mat, nil
	}
	if err == nil {
		raw.Close()
	}

	// OpenCV's decoder lacks some formats the standard library handles
	// (webp in particular); convert the stdlib image instead.
	l.log.Debug("ImageLoader", "opencv decode unavailable, converting stdlib image", nil)
	return conversion.ImageToMat(decoded)
}

func actualFormat(extension, stdFormat string) string {
	switch extension {
	case ".tiff", ".tif":
		return "tiff"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".png":
		return "png"
	case ".bmp":
		return "bmp"
	case ".gif":
		return "gif"
	case ".webp":
		return "webp"
	default:
		if stdFormat != "" {
			return stdFormat
		}
		return "unknown"
	}
}
