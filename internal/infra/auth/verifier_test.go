package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestHMACVerifier(t *testing.T) {
	v := NewHMACVerifier("s3cret")
	ctx := context.Background()

	id, err := v.Verify(ctx, sign(t, "s3cret", jwt.MapClaims{
		"sub":   "user-1",
		"email": "a@b.c",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}))
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: "user-1", Email: "a@b.c"}, id)

	_, err = v.Verify(ctx, sign(t, "other", jwt.MapClaims{"sub": "user-1"}))
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = v.Verify(ctx, sign(t, "s3cret", jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(-time.Minute).Unix(),
	}))
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = v.Verify(ctx, sign(t, "s3cret", jwt.MapClaims{"email": "no-sub@b.c"}))
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewHMACVerifier("").Verify(ctx, "x")
	assert.ErrorIs(t, err, ErrNoVerifier)
}

func TestChain(t *testing.T) {
	ctx := context.Background()
	chain := Chain{NewHMACVerifier("first"), NewHMACVerifier("second")}

	id, err := chain.Verify(ctx, sign(t, "second", jwt.MapClaims{"sub": "u2"}))
	require.NoError(t, err)
	assert.Equal(t, "u2", id.UserID)

	_, err = Chain{}.Verify(ctx, "x")
	assert.ErrorIs(t, err, ErrNoVerifier)
}

func TestBearerToken(t *testing.T) {
	tok, ok := BearerToken("Bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	tok, ok = BearerToken("bearer abc ")
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	for _, h := range []string{"", "Bearer ", "Basic abc", "abc"} {
		_, ok := BearerToken(h)
		assert.False(t, ok, h)
	}
}
