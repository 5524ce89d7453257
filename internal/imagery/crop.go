package imagery

import (
	"image"

	"golang.org/x/image/draw"
)

// CropCenter cuts a square window of side 2*half out of img, centered on the
// image's own center. A window larger than the image is clamped to the
// available bounds instead of failing.
func CropCenter(img image.Image, half int) image.Image {
	bounds := img.Bounds()
	cx := bounds.Min.X + bounds.Dx()/2
	cy := bounds.Min.Y + bounds.Dy()/2

	window := image.Rect(cx-half, cy-half, cx+half, cy+half).Intersect(bounds)
	if window == bounds {
		return img
	}

	out := image.NewRGBA(image.Rect(0, 0, window.Dx(), window.Dy()))
	draw.Copy(out, image.Point{}, img, window, draw.Src, nil)
	return out
}
