package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"

	"imgforge/internal/core/domain"
)

type entry struct {
	meta domain.Artifact
	path string
}

// ScratchStore keeps uploaded and derived artifacts in a scratch directory
// with an in-memory registration map. Artifacts are immutable once written
// and disappear on Delete or when the reaper finds them older than the TTL.
type ScratchStore struct {
	dir string
	ttl time.Duration

	mu        sync.RWMutex
	artifacts map[string]entry

	now func() time.Time
}

func NewScratchStore(dir string, ttl time.Duration) (*ScratchStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating scratch dir: %s", domain.ErrStorage, err)
	}

	return &ScratchStore{
		dir:       dir,
		ttl:       ttl,
		artifacts: make(map[string]entry),
		now:       time.Now,
	}, nil
}

func (s *ScratchStore) Put(ctx context.Context, data []byte, displayName string) (domain.Artifact, error) {
	if len(data) == 0 {
		return domain.Artifact{}, fmt.Errorf("%w: empty payload", domain.ErrParameter)
	}

	id, err := uuid.NewV4()
	if err != nil {
		return domain.Artifact{}, fmt.Errorf("%w: generating id: %s", domain.ErrStorage, err)
	}

	if displayName == "" {
		displayName = "file"
	}

	path := filepath.Join(s.dir, id.String()+safeExtension(displayName))

	// Write through a temp file and rename so a client disconnect or a
	// failed write never leaves a half-written file registered; the rename
	// makes the artifact visible all at once.
	tmp, err := os.CreateTemp(s.dir, ".partial-*")
	if err != nil {
		return domain.Artifact{}, fmt.Errorf("%w: creating temp file: %s", domain.ErrStorage, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return domain.Artifact{}, fmt.Errorf("%w: writing temp file: %s", domain.ErrStorage, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return domain.Artifact{}, fmt.Errorf("%w: closing temp file: %s", domain.ErrStorage, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return domain.Artifact{}, fmt.Errorf("%w: publishing file: %s", domain.ErrStorage, err)
	}

	meta := domain.Artifact{
		ID:          id.String(),
		DisplayName: displayName,
		CreatedAt:   s.now(),
		SizeBytes:   int64(len(data)),
	}

	s.mu.Lock()
	s.artifacts[meta.ID] = entry{meta: meta, path: path}
	s.mu.Unlock()

	log.Debug().Str("id", meta.ID).Int64("bytes", meta.SizeBytes).Msg("stored artifact")

	return meta, nil
}

func (s *ScratchStore) Get(ctx context.Context, id string) ([]byte, domain.Artifact, error) {
	s.mu.RLock()
	e, ok := s.artifacts[id]
	s.mu.RUnlock()

	if !ok {
		return nil, domain.Artifact{}, domain.ErrNotFound
	}

	data, err := os.ReadFile(e.path)
	if err != nil {
		// The reaper may have removed the file between the map lookup and
		// the read; that is indistinguishable from never-existed.
		if os.IsNotExist(err) {
			return nil, domain.Artifact{}, domain.ErrNotFound
		}
		return nil, domain.Artifact{}, fmt.Errorf("%w: reading artifact: %s", domain.ErrStorage, err)
	}

	return data, e.meta, nil
}

func (s *ScratchStore) Stat(id string) (domain.Artifact, error) {
	s.mu.RLock()
	e, ok := s.artifacts[id]
	s.mu.RUnlock()

	if !ok {
		return domain.Artifact{}, domain.ErrNotFound
	}

	return e.meta, nil
}

func (s *ScratchStore) Delete(id string) error {
	s.mu.Lock()
	e, ok := s.artifacts[id]
	if ok {
		delete(s.artifacts, id)
	}
	s.mu.Unlock()

	if !ok {
		return domain.ErrNotFound
	}

	if err := os.Remove(e.path); err != nil && !os.IsNotExist(err) {
		log.Warn().Str("id", id).Err(err).Msg("could not remove artifact file")
	}

	log.Debug().Str("id", id).Msg("deleted artifact")

	return nil
}

// Reap removes every artifact older than the TTL. A failure on one
// artifact is logged and does not stop the sweep.
func (s *ScratchStore) Reap(ctx context.Context) int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.RLock()
	expired := make([]string, 0)
	for id, e := range s.artifacts {
		if e.meta.CreatedAt.Before(cutoff) {
			expired = append(expired, id)
		}
	}
	s.mu.RUnlock()

	reaped := 0
	for _, id := range expired {
		if ctx.Err() != nil {
			break
		}
		if err := s.Delete(id); err != nil {
			log.Warn().Str("id", id).Err(err).Msg("reap skipped artifact")
			continue
		}
		reaped++
	}

	if reaped > 0 {
		log.Info().Int("count", reaped).Msg("reaped expired artifacts")
	}

	return reaped
}

// safeExtension keeps the display name's extension for the backing file
// name but refuses anything that could escape the scratch directory.
func safeExtension(displayName string) string {
	ext := filepath.Ext(filepath.Base(displayName))
	if len(ext) > 16 {
		return ""
	}
	for _, r := range ext {
		if r == '/' || r == '\\' || r == 0 {
			return ""
		}
	}
	return ext
}
