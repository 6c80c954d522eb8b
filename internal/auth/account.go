package auth

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Field length constraints for registration input.
const (
	MaxEmailLength    = 254
	MinUsernameLength = 1
	MaxUsernameLength = 64
)

// emailRegex is a pragmatic shape check: one @, non-empty local part,
// domain with at least one dot. Full RFC 5322 validation is not the goal;
// the unique index on the store is the real uniqueness authority.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Account represents a registered account. The email is the unique
// identity key; the username is a display label and is not unique.
// Accounts are created exactly once by Register and never mutated by
// this core.
type Account struct {
	ID           ulid.ULID
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// NewAccount creates a validated Account with a normalized email.
// The passwordHash must already be a hasher digest, never a plaintext
// secret.
func NewAccount(email, username, passwordHash string) (*Account, error) {
	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, oops.Code("AUTH_INVALID_INPUT").Errorf("password hash cannot be empty")
	}

	return &Account{
		ID:           ulid.Make(),
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// NormalizeEmail lower-cases and trims an email so lookups and the
// store's uniqueness check agree on a single canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail validates the identity key.
func ValidateEmail(email string) error {
	if email == "" {
		return oops.Code("AUTH_INVALID_INPUT").Errorf("email cannot be empty")
	}
	if len(email) > MaxEmailLength {
		return oops.Code("AUTH_INVALID_INPUT").
			With("max", MaxEmailLength).
			Errorf("email must be at most %d characters", MaxEmailLength)
	}
	if !emailRegex.MatchString(email) {
		return oops.Code("AUTH_INVALID_INPUT").Errorf("email is not a valid address")
	}
	return nil
}

// ValidateUsername validates the display name.
func ValidateUsername(username string) error {
	if username == "" {
		return oops.Code("AUTH_INVALID_INPUT").Errorf("username cannot be empty")
	}
	if len(username) > MaxUsernameLength {
		return oops.Code("AUTH_INVALID_INPUT").
			With("max", MaxUsernameLength).
			Errorf("username must be at most %d characters", MaxUsernameLength)
	}
	return nil
}

// AccountRepository manages account persistence.
type AccountRepository interface {
	// Create stores a new account. Returns an error wrapping
	// ErrDuplicateIdentity if the email is already registered; the
	// check-and-insert is atomic at the store level.
	Create(ctx context.Context, account *Account) error

	// GetByEmail retrieves an account by its normalized email.
	// Returns an error wrapping ErrNotFound if no account matches.
	GetByEmail(ctx context.Context, email string) (*Account, error)

	// GetByID retrieves an account by ID.
	GetByID(ctx context.Context, id ulid.ULID) (*Account, error)
}
