// Package imaging holds the pixel transforms applied to captured images.
package imaging

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// ScaledSize returns the dimensions of a w x h image fitted to maxWidth,
// preserving aspect ratio. Images not wider than maxWidth keep their size.
func ScaledSize(w, h, maxWidth int) (int, int) {
	if maxWidth <= 0 || w <= maxWidth || w <= 0 {
		return w, h
	}
	nh := int(math.Round(float64(h) * float64(maxWidth) / float64(w)))
	if nh < 1 {
		nh = 1
	}
	return maxWidth, nh
}

// FitWidth returns src downscaled with Catmull-Rom resampling so that its
// width does not exceed maxWidth. src itself is returned when no scaling is needed.
func FitWidth(src image.Image, maxWidth int) image.Image {
	b := src.Bounds()
	w, h := ScaledSize(b.Dx(), b.Dy(), maxWidth)
	if w == b.Dx() && h == b.Dy() {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}
