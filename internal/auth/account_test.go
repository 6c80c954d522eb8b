package auth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse/gatehouse/internal/auth"
	"github.com/gatehouse/gatehouse/pkg/errutil"
)

func TestNewAccount(t *testing.T) {
	t.Run("creates account with normalized email", func(t *testing.T) {
		account, err := auth.NewAccount("  User@Example.COM ", "alice", "$argon2id$digest")
		require.NoError(t, err)
		assert.Equal(t, "user@example.com", account.Email)
		assert.Equal(t, "alice", account.Username)
		assert.Equal(t, "$argon2id$digest", account.PasswordHash)
		assert.False(t, account.ID.Time() == 0)
		assert.False(t, account.CreatedAt.IsZero())
	})

	t.Run("distinct accounts get distinct IDs", func(t *testing.T) {
		a, err := auth.NewAccount("a@example.com", "a", "digest")
		require.NoError(t, err)
		b, err := auth.NewAccount("b@example.com", "b", "digest")
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
	})

	t.Run("rejects empty password hash", func(t *testing.T) {
		_, err := auth.NewAccount("user@example.com", "alice", "")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "AUTH_INVALID_INPUT")
	})
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{name: "valid address", email: "user@example.com", wantErr: false},
		{name: "valid with subdomain", email: "user@mail.example.co.uk", wantErr: false},
		{name: "valid with plus tag", email: "user+tag@example.com", wantErr: false},
		{name: "empty", email: "", wantErr: true},
		{name: "missing at sign", email: "userexample.com", wantErr: true},
		{name: "missing domain dot", email: "user@localhost", wantErr: true},
		{name: "contains whitespace", email: "us er@example.com", wantErr: true},
		{name: "double at sign", email: "user@@example.com", wantErr: true},
		{name: "too long", email: strings.Repeat("a", 250) + "@x.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := auth.ValidateEmail(tt.email)
			if tt.wantErr {
				require.Error(t, err)
				errutil.AssertErrorCode(t, err, "AUTH_INVALID_INPUT")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	t.Run("accepts normal username", func(t *testing.T) {
		assert.NoError(t, auth.ValidateUsername("alice"))
	})

	t.Run("rejects empty username", func(t *testing.T) {
		err := auth.ValidateUsername("")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "AUTH_INVALID_INPUT")
	})

	t.Run("rejects overlong username", func(t *testing.T) {
		err := auth.ValidateUsername(strings.Repeat("x", auth.MaxUsernameLength+1))
		require.Error(t, err)
	})
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"User@Example.COM", "user@example.com"},
		{"  padded@example.com  ", "padded@example.com"},
		{"already@example.com", "already@example.com"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, auth.NormalizeEmail(tt.in))
	}
}
