package port

import (
	"context"

	"imgforge/internal/core/domain"
)

type ArtifactStore interface {
	// Put persists the given bytes under a fresh unique id and returns the
	// registered artifact. Empty payloads are rejected. Safe for concurrent
	// use; an artifact is either fully stored or not stored at all.
	Put(ctx context.Context, data []byte, displayName string) (domain.Artifact, error)
	// Get returns the complete bytes and metadata for a registered id, or
	// domain.ErrNotFound for unknown and already-reaped ids alike.
	Get(ctx context.Context, id string) ([]byte, domain.Artifact, error)
	// Stat returns metadata without reading the backing bytes.
	Stat(id string) (domain.Artifact, error)
	// Delete removes the registration and the backing bytes. Deleting an
	// unknown id returns domain.ErrNotFound, never panics.
	Delete(id string) error
}

// Reapable is implemented by stores that hold expiring state swept by the
// periodic reaper.
type Reapable interface {
	// Reap deletes entries older than the store's TTL and returns how many
	// were removed. Failures on individual entries do not abort the sweep.
	Reap(ctx context.Context) int
}
