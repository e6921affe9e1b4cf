package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	id := Identity{UserID: "u1", Username: "alice"}

	t.Run("Round trip", func(t *testing.T) {
		token, err := m.Issue(id)
		require.NoError(t, err)

		got, err := m.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	})

	t.Run("Expired", func(t *testing.T) {
		token, err := m.Issue(id)
		require.NoError(t, err)

		later := NewTokenManager("test-secret", time.Hour)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err = later.Verify(token)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		token, err := NewTokenManager("other-secret", time.Hour).Issue(id)
		require.NoError(t, err)

		_, err = m.Verify(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := m.Verify("not-a-token")
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})
}

func TestPasswords(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	assert.True(t, CheckPassword(hash, "correct horse"))
	assert.False(t, CheckPassword(hash, "wrong horse"))
}

func TestIdentityContext(t *testing.T) {
	_, ok := IdentityFrom(context.Background())
	assert.False(t, ok)

	ctx := WithIdentity(context.Background(), Identity{UserID: "u1", Username: "alice"})
	id, ok := IdentityFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, "u1", id.UserID)
}
