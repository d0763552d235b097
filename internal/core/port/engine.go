package port

import (
	"image"

	"imgforge/internal/core/domain"
)

type RasterEngine interface {
	// Decode parses raw bytes into pixels and reports the detected source
	// format. Undecodable input returns domain.ErrDecode.
	Decode(data []byte) (image.Image, domain.Format, error)
	// Resize resamples the image to exactly width x height pixels. Aspect
	// ratio is the caller's concern; both dimensions must be positive.
	Resize(img image.Image, width, height int) (image.Image, error)
	// CropToRatio cuts the largest centered ratioW:ratioH rectangle out of
	// the image at native resolution, without resampling.
	CropToRatio(img image.Image, ratioW, ratioH int) (image.Image, error)
	// RotateFlip rotates by an arbitrary integer angle about the center,
	// optionally mirroring, expanding the canvas to the full bounding box.
	RotateFlip(img image.Image, degrees int, flipH, flipV bool) (image.Image, error)
	// Encode re-encodes pixels into the given format. Quality is on a
	// 0.0-1.0 scale and is required for lossy formats, ignored otherwise.
	Encode(img image.Image, format domain.Format, quality float64) ([]byte, error)
	// Compress is Encode restricted to lossy formats; quality is mandatory.
	Compress(img image.Image, format domain.Format, quality float64) ([]byte, error)
}
