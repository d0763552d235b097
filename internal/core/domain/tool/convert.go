package tool

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"imgforge/internal/core/domain"
	"imgforge/internal/core/port"
)

type ConvertTool struct {
	engine port.RasterEngine
	name   string
}

func NewConvertTool(engine port.RasterEngine, name string) *ConvertTool {
	return &ConvertTool{engine: engine, name: name}
}

func (t *ConvertTool) Name() string {
	return t.name
}

func (t *ConvertTool) Apply(ctx context.Context, src []byte, params domain.ToolParams) ([]byte, error) {
	log.Debug().
		Str("tool", t.name).
		Str("format", params.Format).
		Msg("handling transform")

	if params.Format == "" {
		return nil, fmt.Errorf("%w: target format required", domain.ErrParameter)
	}

	img, srcFormat, err := t.engine.Decode(src)
	if err != nil {
		return nil, err
	}

	format, quality, err := outputEncoding(srcFormat, params)
	if err != nil {
		return nil, err
	}

	return t.engine.Encode(img, format, quality)
}
