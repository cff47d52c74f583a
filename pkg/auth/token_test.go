package auth

import (
	"errors"
	"testing"
	"time"

	"storefront/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIssuer(t *testing.T) *Issuer {
	t.Helper()
	i, err := NewIssuer(config.AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour})
	require.NoError(t, err)
	return i
}

func TestIssueAndParse(t *testing.T) {
	i := newIssuer(t)
	token, expires, err := i.Issue("u1", "alice")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, time.Minute)

	claims, err := i.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestParseRejects(t *testing.T) {
	i := newIssuer(t)
	token, _, err := i.Issue("u1", "alice")
	require.NoError(t, err)

	other, err := NewIssuer(config.AuthConfig{JWTSecret: "other-secret"})
	require.NoError(t, err)
	_, err = other.Parse(token)
	assert.True(t, errors.Is(err, ErrInvalidToken), "wrong secret")

	_, err = i.Parse("not-a-token")
	assert.True(t, errors.Is(err, ErrInvalidToken))

	i.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = i.Parse(token)
	assert.True(t, errors.Is(err, ErrInvalidToken), "expired")
}

func TestRevoke(t *testing.T) {
	i := newIssuer(t)
	token, _, err := i.Issue("u1", "alice")
	require.NoError(t, err)
	claims, err := i.Parse(token)
	require.NoError(t, err)

	i.Revoke(claims)
	_, err = i.Parse(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestSecretRequired(t *testing.T) {
	_, err := NewIssuer(config.AuthConfig{})
	assert.Error(t, err)
}
