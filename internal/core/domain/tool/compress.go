package tool

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"imgforge/internal/core/domain"
	"imgforge/internal/core/port"
)

type CompressTool struct {
	engine port.RasterEngine
	name   string
}

func NewCompressTool(engine port.RasterEngine, name string) *CompressTool {
	return &CompressTool{engine: engine, name: name}
}

func (t *CompressTool) Name() string {
	return t.name
}

func (t *CompressTool) Apply(ctx context.Context, src []byte, params domain.ToolParams) ([]byte, error) {
	log.Debug().
		Str("tool", t.name).
		Str("format", params.Format).
		Msg("handling transform")

	if params.Quality == nil {
		return nil, fmt.Errorf("%w: quality required", domain.ErrParameter)
	}

	img, srcFormat, err := t.engine.Decode(src)
	if err != nil {
		return nil, err
	}

	format := srcFormat
	if params.Format != "" {
		format, err = domain.ParseFormat(params.Format)
		if err != nil {
			return nil, fmt.Errorf("%w: unknown format %q", domain.ErrParameter, params.Format)
		}
	}

	return t.engine.Compress(img, format, *params.Quality)
}
