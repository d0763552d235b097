package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"math"

	"github.com/chai2010/webp"

	// Registers webp with image.Decode; encoding goes through chai2010.
	_ "golang.org/x/image/webp"

	"imgforge/internal/core/domain"
)

func (e *Engine) Decode(data []byte) (image.Image, domain.Format, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty input", domain.ErrDecode)
	}

	img, name, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s", domain.ErrDecode, err)
	}

	format, err := domain.ParseFormat(name)
	if err != nil {
		return nil, "", fmt.Errorf("%w: unsupported format %q", domain.ErrDecode, name)
	}

	return img, format, nil
}

func (e *Engine) Encode(img image.Image, format domain.Format, quality float64) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil source image", domain.ErrParameter)
	}
	if img.Bounds().Dx() < 1 || img.Bounds().Dy() < 1 {
		return nil, fmt.Errorf("%w: empty pixel data", domain.ErrParameter)
	}
	if format.Lossy() && (quality < 0 || quality > 1) {
		return nil, fmt.Errorf("%w: quality %v outside [0, 1]", domain.ErrParameter, quality)
	}

	var buf bytes.Buffer
	var err error

	switch format {
	case domain.FormatPNG:
		err = png.Encode(&buf, img)
	case domain.FormatJPEG:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality(quality)})
	case domain.FormatWebP:
		err = webp.Encode(&buf, img, &webp.Options{Quality: float32(quality * 100)})
	default:
		return nil, fmt.Errorf("%w: unsupported target format %q", domain.ErrParameter, format)
	}

	if err != nil {
		return nil, fmt.Errorf("encoding to %s: %w", format, err)
	}

	return buf.Bytes(), nil
}

func (e *Engine) Compress(img image.Image, format domain.Format, quality float64) ([]byte, error) {
	if !format.Lossy() {
		return nil, fmt.Errorf("%w: %q is not a lossy format", domain.ErrParameter, format)
	}

	return e.Encode(img, format, quality)
}

// jpegQuality maps the 0.0-1.0 scale onto the encoder's 1-100 scale.
func jpegQuality(quality float64) int {
	q := int(math.Round(quality * 100))
	if q < 1 {
		q = 1
	}
	return q
}
