package overlay

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// aspectTolerance is how close two width/height ratios must be to skip cropping.
const aspectTolerance = 0.01

// Normalize fits src to exactly w x h with a cover strategy: scale so the
// target box is filled, then crop the overflow from the center. Aspect ratio
// is never distorted except within aspectTolerance.
func Normalize(src image.Image, w, h int) *image.RGBA {
	sb := src.Bounds()
	srcW, srcH := sb.Dx(), sb.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if srcW == 0 || srcH == 0 {
		return dst
	}

	srcRatio := float64(srcW) / float64(srcH)
	dstRatio := float64(w) / float64(h)

	if math.Abs(srcRatio-dstRatio) < aspectTolerance {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, sb, draw.Src, nil)
		return dst
	}

	newW, newH := coverSize(srcW, srcH, w, h)
	scaled := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, sb, draw.Src, nil)

	left, top := (newW-w)/2, (newH-h)/2
	draw.Draw(dst, dst.Bounds(), scaled, image.Pt(left, top), draw.Src)
	return dst
}

// coverSize returns the scaled dimensions whose shorter side (relative to
// the target) matches the target exactly.
func coverSize(srcW, srcH, w, h int) (int, int) {
	srcRatio := float64(srcW) / float64(srcH)
	dstRatio := float64(w) / float64(h)

	if srcRatio > dstRatio {
		// Wider than the target: match height, crop left and right.
		newW := int(float64(srcW) * (float64(h) / float64(srcH)))
		return max(newW, w), h
	}
	newH := int(float64(srcH) * (float64(w) / float64(srcW)))
	return w, max(newH, h)
}

// Flatten composites img onto opaque black, dropping transparency.
func Flatten(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}
