package pipeline

import (
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/gabriel-dinizz/computer-vision-pipeline/internal/logger"
	"github.com/gabriel-dinizz/computer-vision-pipeline/internal/opencv/conversion"
	"github.com/gabriel-dinizz/computer-vision-pipeline/internal/opencv/safe"
)

const jpegQuality = 95

type Saver struct {
	log logger.Logger
}

func NewSaver(log logger.Logger) *Saver {
	if log == nil {
		log = logger.NewNop()
	}
	return &Saver{log: log}
}

// SaveToFile encodes mat in the format implied by the path extension.
// Unsupported extensions fall back to PNG with a warning.
func (s *Saver) SaveToFile(path string, mat *safe.Mat) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}

	format := formatForExtension(strings.ToLower(filepath.Ext(path)))
	if err := s.SaveToWriter(file, mat, format); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func (s *Saver) SaveToWriter(w io.Writer, mat *safe.Mat, format string) error {
	img, err := conversion.MatToImage(mat)
	if err != nil {
		return errors.Wrap(err, "converting Mat for encoding")
	}

	s.log.Debug("ImageSaver", "saving image", map[string]interface{}{
		"format": format,
		"width":  mat.Cols(),
		"height": mat.Rows(),
	})

	switch format {
	case "jpeg":
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
	case "png":
		err = png.Encode(w, img)
	default:
		s.log.Warning("ImageSaver", "format not supported for encoding, using PNG", map[string]interface{}{
			"requested_format": format,
		})
		err = png.Encode(w, img)
	}

	if err != nil {
		s.log.Error("ImageSaver", err, map[string]interface{}{
			"format": format,
		})
		return errors.Wrap(err, "encoding image")
	}

	s.log.Info("ImageSaver", "image saved", map[string]interface{}{
		"format": format,
	})
	return nil
}

func formatForExtension(ext string) string {
	switch ext {
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".png", "":
		return "png"
	default:
		return ext[1:]
	}
}
