package auth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse/gatehouse/internal/auth"
)

func TestHashSecret(t *testing.T) {
	hasher := auth.NewArgon2idHasher()

	t.Run("produces valid digest", func(t *testing.T) {
		digest, err := hasher.Hash("password123")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(digest, "$argon2id$"))
	})

	t.Run("digest never contains the secret", func(t *testing.T) {
		digest, err := hasher.Hash("hunter2secret")
		require.NoError(t, err)
		assert.NotContains(t, digest, "hunter2secret")
	})

	t.Run("different secrets produce different digests", func(t *testing.T) {
		digest1, err := hasher.Hash("password1")
		require.NoError(t, err)
		digest2, err := hasher.Hash("password2")
		require.NoError(t, err)
		assert.NotEqual(t, digest1, digest2)
	})

	t.Run("same secret produces different digests (salt)", func(t *testing.T) {
		digest1, err := hasher.Hash("samepassword")
		require.NoError(t, err)
		digest2, err := hasher.Hash("samepassword")
		require.NoError(t, err)
		assert.NotEqual(t, digest1, digest2)
	})

	t.Run("rejects empty secret", func(t *testing.T) {
		_, err := hasher.Hash("")
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrEmptySecret)
	})
}

func TestVerifySecret(t *testing.T) {
	hasher := auth.NewArgon2idHasher()

	t.Run("correct secret verifies", func(t *testing.T) {
		digest, err := hasher.Hash("correctpassword")
		require.NoError(t, err)

		ok, err := hasher.Verify("correctpassword", digest)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("incorrect secret fails", func(t *testing.T) {
		digest, err := hasher.Hash("correctpassword")
		require.NoError(t, err)

		ok, err := hasher.Verify("wrongpassword", digest)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("both salted digests of the same secret verify", func(t *testing.T) {
		digest1, err := hasher.Hash("samepassword")
		require.NoError(t, err)
		digest2, err := hasher.Hash("samepassword")
		require.NoError(t, err)

		ok1, err := hasher.Verify("samepassword", digest1)
		require.NoError(t, err)
		ok2, err := hasher.Verify("samepassword", digest2)
		require.NoError(t, err)
		assert.True(t, ok1)
		assert.True(t, ok2)
	})

	t.Run("invalid digest format returns error", func(t *testing.T) {
		_, err := hasher.Verify("password", "not-a-valid-digest")
		assert.Error(t, err)
	})

	t.Run("wrong algorithm returns error", func(t *testing.T) {
		_, err := hasher.Verify("password", "$argon2i$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported hash algorithm")
	})

	t.Run("invalid version format returns error", func(t *testing.T) {
		_, err := hasher.Verify("password", "$argon2id$vXX$m=65536,t=1,p=4$c2FsdA$aGFzaA")
		assert.Error(t, err)
	})

	t.Run("invalid parameters format returns error", func(t *testing.T) {
		_, err := hasher.Verify("password", "$argon2id$v=19$invalid$c2FsdA$aGFzaA")
		assert.Error(t, err)
	})

	t.Run("invalid salt base64 returns error", func(t *testing.T) {
		_, err := hasher.Verify("password", "$argon2id$v=19$m=65536,t=1,p=4$!!!invalid!!!$aGFzaA")
		assert.Error(t, err)
	})

	t.Run("invalid key base64 returns error", func(t *testing.T) {
		_, err := hasher.Verify("password", "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$!!!invalid!!!")
		assert.Error(t, err)
	})

	t.Run("threads overflow returns error", func(t *testing.T) {
		// threads=256 exceeds uint8 max (255)
		_, err := hasher.Verify("password", "$argon2id$v=19$m=65536,t=1,p=256$c2FsdA$aGFzaA")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "threads value")
	})
}
