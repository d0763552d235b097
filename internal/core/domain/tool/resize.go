package tool

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"imgforge/internal/core/domain"
	"imgforge/internal/core/port"
)

type ResizeTool struct {
	engine port.RasterEngine
	name   string
}

func NewResizeTool(engine port.RasterEngine, name string) *ResizeTool {
	return &ResizeTool{engine: engine, name: name}
}

func (t *ResizeTool) Name() string {
	return t.name
}

func (t *ResizeTool) Apply(ctx context.Context, src []byte, params domain.ToolParams) ([]byte, error) {
	log.Debug().
		Str("tool", t.name).
		Int("width", params.Width).
		Int("height", params.Height).
		Msg("handling transform")

	if params.Width < 1 || params.Height < 1 {
		return nil, fmt.Errorf("%w: target dimensions must be positive, got %dx%d",
			domain.ErrParameter, params.Width, params.Height)
	}

	img, srcFormat, err := t.engine.Decode(src)
	if err != nil {
		return nil, err
	}

	resized, err := t.engine.Resize(img, params.Width, params.Height)
	if err != nil {
		return nil, err
	}

	format, quality, err := outputEncoding(srcFormat, params)
	if err != nil {
		return nil, err
	}

	return t.engine.Encode(resized, format, quality)
}
