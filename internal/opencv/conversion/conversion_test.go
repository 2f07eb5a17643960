package conversion

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"gocv.io/x/gocv"

	"github.com/gabriel-dinizz/computer-vision-pipeline/internal/opencv/safe"
)

func TestConvertToGrayscaleClonesSingleChannel(t *testing.T) {
	src, err := safe.NewMat(4, 4, gocv.MatTypeCV8UC1)
	assert.NoError(t, err)
	defer src.Close()

	raw := src.GetMat()
	raw.SetUCharAt(1, 2, 99)

	gray, err := ConvertToGrayscale(src)
	assert.NoError(t, err)
	defer gray.Close()

	v, err := gray.GetUCharAt(1, 2)
	assert.NoError(t, err)
	assert.Equal(t, uint8(99), v)

	// Writing to the clone must not touch the source.
	grayMat := gray.GetMat()
	grayMat.SetUCharAt(1, 2, 0)
	v, err = src.GetUCharAt(1, 2)
	assert.NoError(t, err)
	assert.Equal(t, uint8(99), v)
}

func TestConvertToGrayscaleReducesColor(t *testing.T) {
	src, err := safe.NewMat(4, 4, gocv.MatTypeCV8UC3)
	assert.NoError(t, err)
	defer src.Close()

	raw := src.GetMat()
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			for c := 0; c < 3; c++ {
				raw.SetUCharAt(y, x*3+c, 120)
			}
		}
	}

	gray, err := ConvertToGrayscale(src)
	assert.NoError(t, err)
	defer gray.Close()

	assert.Equal(t, 1, gray.Channels())
	// Equal channels reduce to the same intensity.
	v, err := gray.GetUCharAt(2, 2)
	assert.NoError(t, err)
	assert.Equal(t, uint8(120), v)
}

func TestConvertToGrayscaleRejectsInvalid(t *testing.T) {
	_, err := ConvertToGrayscale(nil)
	assert.Error(t, err)
}

func TestImageToMatRoundTripGray(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 6, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			img.Pix[y*img.Stride+x] = uint8(y*40 + x*7)
		}
	}

	mat, err := ImageToMat(img)
	assert.NoError(t, err)
	defer mat.Close()

	assert.Equal(t, 4, mat.Rows())
	assert.Equal(t, 6, mat.Cols())
	assert.Equal(t, 1, mat.Channels())

	back, err := MatToImage(mat)
	assert.NoError(t, err)

	gray, ok := back.(*image.Gray)
	assert.True(t, ok)
	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			assert.Equal(t, img.Pix[y*img.Stride+x], gray.Pix[y*gray.Stride+x])
		}
	}
}

func TestImageToMatColorKeepsBGROrder(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	mat, err := ImageToMat(img)
	assert.NoError(t, err)
	defer mat.Close()

	assert.Equal(t, 3, mat.Channels())

	raw := mat.GetMat()
	assert.Equal(t, uint8(30), raw.GetUCharAt(0, 0))
	assert.Equal(t, uint8(20), raw.GetUCharAt(0, 1))
	assert.Equal(t, uint8(10), raw.GetUCharAt(0, 2))

	back, err := MatToImage(mat)
	assert.NoError(t, err)

	rgba, ok := back.(*image.RGBA)
	assert.True(t, ok)
	assert.Equal(t, color.RGBA{R: 10, G: 20, B: 30, A: 255}, rgba.RGBAAt(0, 0))
}

func TestImageToMatNilInput(t *testing.T) {
	_, err := ImageToMat(nil)
	assert.Error(t, err)
}
