package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"

	"imgforge/internal/core/domain"
	"imgforge/internal/core/port"
)

// ShareService mints and checks capability tokens. A token is bound to one
// artifact and one expiry; artifact TTL and token TTL are independent, so a
// valid token can outlive its artifact (the fetch then fails not-found).
type ShareService struct {
	store port.ArtifactStore
	ttl   time.Duration

	mu     sync.Mutex
	tokens map[string]domain.CapabilityToken

	now func() time.Time
}

func NewShareService(store port.ArtifactStore, ttl time.Duration) *ShareService {
	return &ShareService{
		store:  store,
		ttl:    ttl,
		tokens: make(map[string]domain.CapabilityToken),
		now:    time.Now,
	}
}

func (s *ShareService) Issue(ctx context.Context, artifactID string) (domain.CapabilityToken, error) {
	if _, err := s.store.Stat(artifactID); err != nil {
		return domain.CapabilityToken{}, err
	}

	value, err := uuid.NewV4()
	if err != nil {
		return domain.CapabilityToken{}, fmt.Errorf("generating token: %w", err)
	}

	token := domain.CapabilityToken{
		Token:      value.String(),
		ArtifactID: artifactID,
		ExpiresAt:  s.now().Add(s.ttl),
	}

	s.mu.Lock()
	s.tokens[token.Token] = token
	s.mu.Unlock()

	log.Info().Str("artifactId", artifactID).Time("expiresAt", token.ExpiresAt).Msg("issued share token")

	return token, nil
}

// Validate returns domain.ErrInvalidToken for every failure mode. The logs
// distinguish them; the caller must not be able to.
func (s *ShareService) Validate(token, artifactID string) error {
	s.mu.Lock()
	t, ok := s.tokens[token]
	s.mu.Unlock()

	if !ok {
		log.Debug().Str("artifactId", artifactID).Msg("unknown share token")
		return domain.ErrInvalidToken
	}

	if t.ArtifactID != artifactID {
		log.Debug().Str("artifactId", artifactID).Msg("share token bound to different artifact")
		return domain.ErrInvalidToken
	}

	if !s.now().Before(t.ExpiresAt) {
		log.Debug().Str("artifactId", artifactID).Msg("share token expired")
		return domain.ErrInvalidToken
	}

	return nil
}

// Reap drops expired tokens so the map does not grow without bound.
func (s *ShareService) Reap(ctx context.Context) int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	reaped := 0
	for value, t := range s.tokens {
		if !now.Before(t.ExpiresAt) {
			delete(s.tokens, value)
			reaped++
		}
	}

	if reaped > 0 {
		log.Debug().Int("count", reaped).Msg("reaped expired share tokens")
	}

	return reaped
}
