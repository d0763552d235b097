package tool

import (
	"context"

	"github.com/rs/zerolog/log"

	"imgforge/internal/core/domain"
	"imgforge/internal/core/port"
)

type CropTool struct {
	engine port.RasterEngine
	name   string
}

func NewCropTool(engine port.RasterEngine, name string) *CropTool {
	return &CropTool{engine: engine, name: name}
}

func (t *CropTool) Name() string {
	return t.name
}

func (t *CropTool) Apply(ctx context.Context, src []byte, params domain.ToolParams) ([]byte, error) {
	log.Debug().
		Str("tool", t.name).
		Int("ratioW", params.RatioW).
		Int("ratioH", params.RatioH).
		Msg("handling transform")

	img, srcFormat, err := t.engine.Decode(src)
	if err != nil {
		return nil, err
	}

	cropped, err := t.engine.CropToRatio(img, params.RatioW, params.RatioH)
	if err != nil {
		return nil, err
	}

	format, quality, err := outputEncoding(srcFormat, params)
	if err != nil {
		return nil, err
	}

	return t.engine.Encode(cropped, format, quality)
}
