package tool

import (
	"context"

	"github.com/rs/zerolog/log"

	"imgforge/internal/core/domain"
	"imgforge/internal/core/port"
)

type RotateTool struct {
	engine port.RasterEngine
	name   string
}

func NewRotateTool(engine port.RasterEngine, name string) *RotateTool {
	return &RotateTool{engine: engine, name: name}
}

func (t *RotateTool) Name() string {
	return t.name
}

func (t *RotateTool) Apply(ctx context.Context, src []byte, params domain.ToolParams) ([]byte, error) {
	log.Debug().
		Str("tool", t.name).
		Int("degrees", params.Degrees).
		Bool("flipH", params.FlipH).
		Bool("flipV", params.FlipV).
		Msg("handling transform")

	img, srcFormat, err := t.engine.Decode(src)
	if err != nil {
		return nil, err
	}

	rotated, err := t.engine.RotateFlip(img, params.Degrees, params.FlipH, params.FlipV)
	if err != nil {
		return nil, err
	}

	format, quality, err := outputEncoding(srcFormat, params)
	if err != nil {
		return nil, err
	}

	return t.engine.Encode(rotated, format, quality)
}
