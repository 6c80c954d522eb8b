package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse/gatehouse/internal/auth"
)

var signingKey = []byte("test-signing-key-at-least-32-bytes")

func TestNewTokenCodec(t *testing.T) {
	t.Run("rejects empty key", func(t *testing.T) {
		codec, err := auth.NewTokenCodec(nil, time.Hour)
		require.Error(t, err)
		assert.Nil(t, codec)
	})

	t.Run("zero ttl selects default", func(t *testing.T) {
		codec, err := auth.NewTokenCodec(signingKey, 0)
		require.NoError(t, err)
		assert.Equal(t, auth.DefaultTokenTTL, codec.TTL())
	})

	t.Run("explicit ttl is kept", func(t *testing.T) {
		codec, err := auth.NewTokenCodec(signingKey, 15*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, 15*time.Minute, codec.TTL())
	})
}

func TestTokenRoundTrip(t *testing.T) {
	codec, err := auth.NewTokenCodec(signingKey, time.Hour)
	require.NoError(t, err)

	t.Run("issued token parses to the same identity", func(t *testing.T) {
		token, err := codec.Issue("user@example.com", 0)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := codec.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, "user@example.com", claims.Identity())
	})

	t.Run("rejects empty identity", func(t *testing.T) {
		_, err := codec.Issue("", 0)
		assert.Error(t, err)
	})

	t.Run("token is opaque to inspection without the key", func(t *testing.T) {
		token, err := codec.Issue("user@example.com", 0)
		require.NoError(t, err)

		otherCodec, err := auth.NewTokenCodec([]byte("a-completely-different-signing-key"), time.Hour)
		require.NoError(t, err)

		_, err = otherCodec.Parse(token)
		assert.ErrorIs(t, err, auth.ErrTokenInvalid)
	})
}

func TestTokenParse(t *testing.T) {
	codec, err := auth.NewTokenCodec(signingKey, time.Hour)
	require.NoError(t, err)

	t.Run("expired token returns ErrTokenExpired", func(t *testing.T) {
		// A one-nanosecond lifetime is expired by the time Parse runs.
		token, err := codec.Issue("user@example.com", time.Nanosecond)
		require.NoError(t, err)

		time.Sleep(10 * time.Millisecond)

		_, err = codec.Parse(token)
		assert.ErrorIs(t, err, auth.ErrTokenExpired)
	})

	t.Run("malformed token returns ErrTokenInvalid", func(t *testing.T) {
		_, err := codec.Parse("not.a.token")
		assert.ErrorIs(t, err, auth.ErrTokenInvalid)
	})

	t.Run("garbage token returns ErrTokenInvalid", func(t *testing.T) {
		_, err := codec.Parse("garbage")
		assert.ErrorIs(t, err, auth.ErrTokenInvalid)
	})

	t.Run("tampered token returns ErrTokenInvalid", func(t *testing.T) {
		token, err := codec.Issue("user@example.com", 0)
		require.NoError(t, err)

		tampered := token[:len(token)-4] + "AAAA"
		_, err = codec.Parse(tampered)
		assert.ErrorIs(t, err, auth.ErrTokenInvalid)
	})

	t.Run("unsigned algorithm is rejected", func(t *testing.T) {
		// alg=none token with a valid-looking payload.
		noneToken := "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0." +
			"eyJzdWIiOiJ1c2VyQGV4YW1wbGUuY29tIn0."
		_, err := codec.Parse(noneToken)
		assert.ErrorIs(t, err, auth.ErrTokenInvalid)
	})
}
