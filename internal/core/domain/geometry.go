package domain

import (
	"image"
	"math"
)

// roundHalfUp is the single rounding rule used for all geometry so results
// are reproducible across operations.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// CropRatioRect computes the largest centered rectangle of a srcW x srcH
// image matching the ratioW:ratioH aspect ratio. The rectangle is expressed
// in a coordinate space with origin at the image's top-left corner.
func CropRatioRect(srcW, srcH, ratioW, ratioH int) (image.Rectangle, error) {
	if srcW < 1 || srcH < 1 || ratioW < 1 || ratioH < 1 {
		return image.Rectangle{}, ErrParameter
	}

	targetRatio := float64(ratioW) / float64(ratioH)
	currentRatio := float64(srcW) / float64(srcH)

	x, y, w, h := 0, 0, srcW, srcH
	if currentRatio > targetRatio {
		w = roundHalfUp(float64(srcH) * targetRatio)
		x = roundHalfUp(float64(srcW-w) / 2)
	} else {
		h = roundHalfUp(float64(srcW) / targetRatio)
		y = roundHalfUp(float64(srcH-h) / 2)
	}

	// Rounding may nudge the window past the source edge; clamp so the
	// crop always stays inside the image and stays non-empty.
	w = max(1, min(w, srcW))
	h = max(1, min(h, srcH))
	x = max(0, min(x, srcW-w))
	y = max(0, min(y, srcH-h))

	return image.Rect(x, y, x+w, y+h), nil
}

// NormalizeDegrees maps any integer angle to [0, 360).
func NormalizeDegrees(degrees int) int {
	d := degrees % 360
	if d < 0 {
		d += 360
	}
	return d
}

// RotatedBounds returns the dimensions of the minimal axis-aligned box
// containing a srcW x srcH image rotated by the given angle.
func RotatedBounds(srcW, srcH, degrees int) (int, int) {
	radians := float64(NormalizeDegrees(degrees)) * math.Pi / 180
	sin := math.Abs(math.Sin(radians))
	cos := math.Abs(math.Cos(radians))

	outW := roundHalfUp(float64(srcW)*cos + float64(srcH)*sin)
	outH := roundHalfUp(float64(srcW)*sin + float64(srcH)*cos)

	// A degenerate angle must still yield a drawable canvas.
	return max(1, outW), max(1, outH)
}
