package imagery

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradientImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	return img
}

func TestCropCenterWindowSize(t *testing.T) {
	cropped := CropCenter(gradientImage(1920, 1080), 300)

	assert.Equal(t, 600, cropped.Bounds().Dx())
	assert.Equal(t, 600, cropped.Bounds().Dy())
}

func TestCropCenterKeepsCenterPixels(t *testing.T) {
	src := gradientImage(1920, 1080)
	cropped := CropCenter(src, 300)

	// Top-left of the window corresponds to (960-300, 540-300) in the source.
	wantR, wantG, _, _ := src.At(660, 240).RGBA()
	gotR, gotG, _, _ := cropped.At(cropped.Bounds().Min.X, cropped.Bounds().Min.Y).RGBA()
	assert.Equal(t, wantR, gotR)
	assert.Equal(t, wantG, gotG)
}

func TestCropCenterClampsSmallRasters(t *testing.T) {
	src := gradientImage(200, 120)
	cropped := CropCenter(src, 300)

	require.NotNil(t, cropped)
	assert.Equal(t, 200, cropped.Bounds().Dx())
	assert.Equal(t, 120, cropped.Bounds().Dy())
}

func TestCropCenterClampsOneAxis(t *testing.T) {
	cropped := CropCenter(gradientImage(1000, 400), 300)

	assert.Equal(t, 600, cropped.Bounds().Dx())
	assert.Equal(t, 400, cropped.Bounds().Dy())
}
