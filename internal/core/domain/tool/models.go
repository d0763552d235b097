package tool

import (
	"fmt"

	"imgforge/internal/core/domain"
)

// defaultQuality matches the encoder default of the browser canvas the
// upload clients use, so server-side results look the same.
const defaultQuality = 0.92

// outputEncoding resolves the target format and quality for a transform
// result. With no explicit format the source format is kept; with no
// explicit quality, lossy targets use defaultQuality.
func outputEncoding(src domain.Format, params domain.ToolParams) (domain.Format, float64, error) {
	format := src
	if params.Format != "" {
		f, err := domain.ParseFormat(params.Format)
		if err != nil {
			return "", 0, fmt.Errorf("%w: unknown format %q", domain.ErrParameter, params.Format)
		}
		format = f
	}

	quality := defaultQuality
	if params.Quality != nil {
		quality = *params.Quality
	}

	return format, quality, nil
}
