package raster

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"imgforge/internal/core/domain"
)

// Engine implements the transform operations on decoded pixels. All
// operations return a freshly allocated image; sources are never written.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

func (e *Engine) Resize(img image.Image, width, height int) (image.Image, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil source image", domain.ErrParameter)
	}
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: target dimensions must be positive, got %dx%d",
			domain.ErrParameter, width, height)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	return dst, nil
}

func (e *Engine) CropToRatio(img image.Image, ratioW, ratioH int) (image.Image, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil source image", domain.ErrParameter)
	}

	bounds := img.Bounds()
	rect, err := domain.CropRatioRect(bounds.Dx(), bounds.Dy(), ratioW, ratioH)
	if err != nil {
		return nil, fmt.Errorf("%w: ratio %d:%d on %dx%d source",
			domain.ErrParameter, ratioW, ratioH, bounds.Dx(), bounds.Dy())
	}

	dst := image.NewNRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Copy(dst, image.Point{}, img, rect.Add(bounds.Min), draw.Src, nil)

	return dst, nil
}

func (e *Engine) RotateFlip(img image.Image, degrees int, flipH, flipV bool) (image.Image, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil source image", domain.ErrParameter)
	}

	bounds := img.Bounds()
	deg := domain.NormalizeDegrees(degrees)

	if deg == 0 && !flipH && !flipV {
		dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Copy(dst, image.Point{}, img, bounds, draw.Src, nil)
		return dst, nil
	}

	outW, outH := domain.RotatedBounds(bounds.Dx(), bounds.Dy(), deg)

	radians := float64(deg) * math.Pi / 180
	sin, cos := math.Sincos(radians)

	sx, sy := 1.0, 1.0
	if flipH {
		sx = -1
	}
	if flipV {
		sy = -1
	}

	// Source center and output center; the transform mirrors about the
	// source center, rotates, then recenters on the expanded canvas.
	cx := float64(bounds.Min.X) + float64(bounds.Dx())/2
	cy := float64(bounds.Min.Y) + float64(bounds.Dy())/2
	ox := float64(outW) / 2
	oy := float64(outH) / 2

	m := f64.Aff3{
		cos * sx, -sin * sy, ox - cos*sx*cx + sin*sy*cy,
		sin * sx, cos * sy, oy - sin*sx*cx - cos*sy*cy,
	}

	// Uncovered corners stay at the zero value, fully transparent.
	dst := image.NewNRGBA(image.Rect(0, 0, outW, outH))
	draw.BiLinear.Transform(dst, m, img, bounds, draw.Over, nil)

	return dst, nil
}
