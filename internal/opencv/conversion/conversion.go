// Package conversion bridges OpenCV Mats and standard library images, and
// holds the single grayscale-reduction routine shared by the convolution
// engine and the quality assessor so both see identical luma values.
package conversion

import (
	"image"
	"image/color"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/gabriel-dinizz/computer-vision-pipeline/internal/opencv/safe"
)

// ConvertToGrayscale reduces a multi-channel image to single-channel
// grayscale. Single-channel inputs are cloned so the caller always owns
// the result.
func ConvertToGrayscale(src *safe.Mat) (*safe.Mat, error) {
	if err := safe.ValidateMatForOperation(src, "grayscale conversion"); err != nil {
		return nil, errors.Wrap(err, "validation failed")
	}

	if src.Channels() == 1 {
		return src.Clone()
	}

	dst, err := safe.NewMat(src.Rows(), src.Cols(), gocv.MatTypeCV8UC1)
	if err != nil {
		return nil, errors.Wrap(err, "destination Mat creation failed")
	}

	srcMat := src.GetMat()
	dstMat := dst.GetMat()

	switch src.Channels() {
	case 3:
		gocv.CvtColor(srcMat, &dstMat, gocv.ColorBGRToGray)
	case 4:
		temp := gocv.NewMat()
		defer temp.Close()
		gocv.CvtColor(srcMat, &temp, gocv.ColorBGRAToBGR)
		gocv.CvtColor(temp, &dstMat, gocv.ColorBGRToGray)
	default:
		dst.Close()
		return nil, errors.Errorf("unsupported channel count: %d", src.Channels())
	}

	return dst, nil
}

// MatToImage converts a Mat to a standard library image for encoding.
func MatToImage(src *safe.Mat) (image.Image, error) {
	if err := safe.ValidateMatForOperation(src, "Mat to image conversion"); err != nil {
		return nil, err
	}

	rows := src.Rows()
	cols := src.Cols()

	switch src.Channels() {
	case 1:
		return matToGray(src, rows, cols)
	case 3:
		return matToRGBA(src, rows, cols)
	default:
		return nil, errors.Errorf("unsupported channel count: %d", src.Channels())
	}
}

// ImageToMat converts a standard library image to a BGR or grayscale Mat.
func ImageToMat(img image.Image) (*safe.Mat, error) {
	if img == nil {
		return nil, errors.New("input image is nil")
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if err := safe.ValidateDimensions(width, height, "image to Mat conversion"); err != nil {
		return nil, err
	}

	if gray, ok := img.(*image.Gray); ok {
		return grayImageToMat(gray, width, height)
	}

	return colorImageToMat(img, width, height)
}

func matToGray(src *safe.Mat, rows, cols int) (*image.Gray, error) {
	img := image.NewGray(image.Rect(0, 0, cols, rows))
	srcMat := src.GetMat()

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			img.Pix[y*img.Stride+x] = srcMat.GetUCharAt(y, x)
		}
	}

	return img, nil
}

func matToRGBA(src *safe.Mat, rows, cols int) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, cols, rows))
	srcMat := src.GetMat()

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			// OpenCV stores color images in BGR order.
			b := srcMat.GetUCharAt3(y, x, 0)
			g := srcMat.GetUCharAt3(y, x, 1)
			r := srcMat.GetUCharAt3(y, x, 2)
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}

	return img, nil
}

func grayImageToMat(img *image.Gray, width, height int) (*safe.Mat, error) {
	dst, err := safe.NewMat(height, width, gocv.MatTypeCV8UC1)
	if err != nil {
		return nil, err
	}

	dstMat := dst.GetMat()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			dstMat.SetUCharAt(y, x, img.GrayAt(x+img.Rect.Min.X, y+img.Rect.Min.Y).Y)
		}
	}

	return dst, nil
}

func colorImageToMat(img image.Image, width, height int) (*safe.Mat, error) {
	dst, err := safe.NewMat(height, width, gocv.MatTypeCV8UC3)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	dstMat := dst.GetMat()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			dstMat.SetUCharAt(y, x*3, uint8(b>>8))
			dstMat.SetUCharAt(y, x*3+1, uint8(g>>8))
			dstMat.SetUCharAt(y, x*3+2, uint8(r>>8))
		}
	}

	return dst, nil
}
