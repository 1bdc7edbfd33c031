package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParse(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)

	tok, err := m.Sign("u1", "alice")
	require.NoError(t, err)

	claims, err := m.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.ID)
	assert.Equal(t, "alice", claims.Username)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestParseRejects(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	other := NewTokenManager("other", time.Hour)

	tok, err := other.Sign("u1", "alice")
	require.NoError(t, err)
	_, err = m.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Parse("")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokenManager("secret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	tok, err = expired.Sign("u1", "alice")
	require.NoError(t, err)
	_, err = m.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{ID: "u1"})
	raw, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestViewerContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", ViewerID(ctx))

	ctx = WithViewer(ctx, &Claims{ID: "u1", Username: "alice"})
	c, ok := ViewerFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, "alice", c.Username)
	assert.Equal(t, "u1", ViewerID(ctx))
}
