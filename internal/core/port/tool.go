package port

import (
	"context"

	"imgforge/internal/core/domain"
)

type Tool interface {
	// Apply runs one transform over the source bytes and returns the
	// re-encoded result.
	Apply(ctx context.Context, src []byte, params domain.ToolParams) ([]byte, error)
	// Name returns the tool identifier used for dispatch.
	Name() string
}

type ToolRegistry interface {
	// Register adds a tool handler to the registry.
	Register(tool Tool)
	// Get retrieves a registered Tool by name or returns an error if no
	// such tool exists.
	Get(name string) (Tool, error)
	// ListTools returns the names of all registered tools.
	ListTools() []string
}
