package port

import (
	"context"

	"imgforge/internal/core/domain"
)

type TokenIssuer interface {
	// Issue mints a fresh unguessable token bound to one registered
	// artifact. Unknown artifact ids return domain.ErrNotFound.
	Issue(ctx context.Context, artifactID string) (domain.CapabilityToken, error)
	// Validate succeeds only for a known, unexpired token bound to the
	// expected artifact. Every other outcome is domain.ErrInvalidToken;
	// callers cannot tell an expired token from a forged one.
	Validate(token, artifactID string) error
}
