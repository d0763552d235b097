package tool

import (
	"errors"

	"github.com/rs/zerolog/log"

	"imgforge/internal/core/port"
)

type Registry struct {
	tools map[string]port.Tool
}

func (r *Registry) Register(tool port.Tool) {
	if r.tools == nil {
		r.tools = make(map[string]port.Tool)
	}

	log.Info().Str("tool", tool.Name()).Msg("adding tool handler to registry")
	r.tools[tool.Name()] = tool
}

func (r *Registry) Get(name string) (port.Tool, error) {
	log.Debug().Str("tool", name).Msg("fetching tool handler from registry")

	if r.tools == nil {
		return nil, errors.New("can't fetch tool, registry not initialized")
	}

	tool, ok := r.tools[name]
	if !ok {
		return nil, errors.New("tool not found")
	}

	return tool, nil
}

func (r *Registry) ListTools() []string {
	keys := make([]string, len(r.tools))

	i := 0
	for k := range r.tools {
		keys[i] = k
		i++
	}

	return keys
}
