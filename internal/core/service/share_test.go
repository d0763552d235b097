package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imgforge/internal/core/domain"
)

type MockStore struct {
	statErr error
}

func (m *MockStore) Put(ctx context.Context, data []byte, displayName string) (domain.Artifact, error) {
	return domain.Artifact{}, nil
}

func (m *MockStore) Get(ctx context.Context, id string) ([]byte, domain.Artifact, error) {
	return nil, domain.Artifact{}, nil
}

func (m *MockStore) Stat(id string) (domain.Artifact, error) {
	if m.statErr != nil {
		return domain.Artifact{}, m.statErr
	}
	return domain.Artifact{ID: id}, nil
}

func (m *MockStore) Delete(id string) error {
	return nil
}

func TestIssueAndValidate(t *testing.T) {
	svc := NewShareService(&MockStore{}, time.Minute)

	token, err := svc.Issue(t.Context(), "artifact-a")
	require.NoError(t, err)
	assert.NotEmpty(t, token.Token)
	assert.Equal(t, "artifact-a", token.ArtifactID)
	assert.True(t, token.ExpiresAt.After(time.Now()))

	assert.NoError(t, svc.Validate(token.Token, "artifact-a"))
}

func TestIssueUnknownArtifact(t *testing.T) {
	svc := NewShareService(&MockStore{statErr: domain.ErrNotFound}, time.Minute)

	_, err := svc.Issue(t.Context(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIssueMintsDistinctTokens(t *testing.T) {
	svc := NewShareService(&MockStore{}, time.Minute)

	a, err := svc.Issue(t.Context(), "artifact-a")
	require.NoError(t, err)
	b, err := svc.Issue(t.Context(), "artifact-a")
	require.NoError(t, err)

	// Multiple live tokens per artifact are legal, and never equal.
	assert.NotEqual(t, a.Token, b.Token)
	assert.NoError(t, svc.Validate(a.Token, "artifact-a"))
	assert.NoError(t, svc.Validate(b.Token, "artifact-a"))
}

func TestValidateWrongArtifact(t *testing.T) {
	svc := NewShareService(&MockStore{}, time.Minute)

	token, err := svc.Issue(t.Context(), "artifact-a")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Validate(token.Token, "artifact-b"), domain.ErrInvalidToken)
}

func TestValidateUnknownToken(t *testing.T) {
	svc := NewShareService(&MockStore{}, time.Minute)

	assert.ErrorIs(t, svc.Validate("forged", "artifact-a"), domain.ErrInvalidToken)
}

func TestValidateExpiryBoundary(t *testing.T) {
	svc := NewShareService(&MockStore{}, 60*time.Second)

	issuedAt := time.Now()
	svc.now = func() time.Time { return issuedAt }

	token, err := svc.Issue(t.Context(), "artifact-a")
	require.NoError(t, err)
	assert.Equal(t, issuedAt.Add(60*time.Second), token.ExpiresAt)

	// Valid immediately and right up to the expiry instant.
	assert.NoError(t, svc.Validate(token.Token, "artifact-a"))

	svc.now = func() time.Time { return token.ExpiresAt.Add(-time.Millisecond) }
	assert.NoError(t, svc.Validate(token.Token, "artifact-a"))

	svc.now = func() time.Time { return token.ExpiresAt }
	assert.ErrorIs(t, svc.Validate(token.Token, "artifact-a"), domain.ErrInvalidToken)

	svc.now = func() time.Time { return token.ExpiresAt.Add(time.Millisecond) }
	assert.ErrorIs(t, svc.Validate(token.Token, "artifact-a"), domain.ErrInvalidToken)
}

func TestTokenSurvivesArtifactDeletion(t *testing.T) {
	store := &MockStore{}
	svc := NewShareService(store, time.Minute)

	token, err := svc.Issue(t.Context(), "artifact-a")
	require.NoError(t, err)

	// Token validation has no cross-invalidation hook: once the artifact
	// is gone the token still validates, and the artifact fetch is what
	// fails for the caller.
	store.statErr = domain.ErrNotFound
	assert.NoError(t, svc.Validate(token.Token, "artifact-a"))
}

func TestReapDropsExpiredTokens(t *testing.T) {
	svc := NewShareService(&MockStore{}, time.Minute)

	expired, err := svc.Issue(t.Context(), "artifact-a")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	live, err := svc.Issue(t.Context(), "artifact-b")
	require.NoError(t, err)

	assert.Equal(t, 1, svc.Reap(t.Context()))

	assert.ErrorIs(t, svc.Validate(expired.Token, "artifact-a"), domain.ErrInvalidToken)
	assert.NoError(t, svc.Validate(live.Token, "artifact-b"))
}
