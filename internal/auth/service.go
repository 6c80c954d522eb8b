package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/oops"
)

// dummyDigest is verified on the account-not-found login path so the
// response time stays comparable to a wrong-password failure. This is
// NOT a real credential - it is a fake digest that never matches any
// secret.
//
//nolint:gosec // G101: intentionally fake digest for timing equalization, not a credential.
const dummyDigest = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Service composes the hasher, account store, and token codec into the
// three observable operations: Register, Authenticate, Introspect.
type Service struct {
	accounts AccountRepository
	hasher   PasswordHasher
	codec    *TokenCodec
	verifier *Verifier
	logger   *slog.Logger
}

// NewService creates a Service with the default logger.
func NewService(accounts AccountRepository, hasher PasswordHasher, codec *TokenCodec) (*Service, error) {
	return NewServiceWithLogger(accounts, hasher, codec, slog.Default())
}

// NewServiceWithLogger creates a Service with an explicit logger.
func NewServiceWithLogger(accounts AccountRepository, hasher PasswordHasher, codec *TokenCodec, logger *slog.Logger) (*Service, error) {
	if accounts == nil {
		return nil, oops.Code("AUTH_NIL_DEPENDENCY").Errorf("account repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_NIL_DEPENDENCY").Errorf("password hasher is required")
	}
	if codec == nil {
		return nil, oops.Code("AUTH_NIL_DEPENDENCY").Errorf("token codec is required")
	}
	if logger == nil {
		return nil, oops.Code("AUTH_NIL_DEPENDENCY").Errorf("logger is required")
	}

	verifier, err := NewVerifier(codec, accounts)
	if err != nil {
		return nil, err
	}

	return &Service{
		accounts: accounts,
		hasher:   hasher,
		codec:    codec,
		verifier: verifier,
		logger:   logger,
	}, nil
}

// Register creates a new account and issues its first session token.
//
// Duplicate registrations fail with AUTH_DUPLICATE_ACCOUNT and a
// caller-safe message that does not say which field collided. The
// plaintext secret is hashed before the store is touched and never
// logged.
func (s *Service) Register(ctx context.Context, email, username, secret string) (*Account, string, error) {
	// Validate everything before the hash: argon2id is deliberately
	// expensive and bad input should not pay for it.
	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return nil, "", err
	}
	if err := ValidateUsername(username); err != nil {
		return nil, "", err
	}
	if secret == "" {
		return nil, "", oops.Code("AUTH_INVALID_INPUT").Errorf("password cannot be empty")
	}

	digest, err := s.hasher.Hash(secret)
	if err != nil {
		return nil, "", oops.Code("AUTH_INVALID_INPUT").
			With("operation", "hash secret").
			Wrap(err)
	}

	account, err := NewAccount(email, username, digest)
	if err != nil {
		return nil, "", err
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, ErrDuplicateIdentity) {
			return nil, "", oops.Code("AUTH_DUPLICATE_ACCOUNT").Errorf("account already exists")
		}
		return nil, "", oops.Code("STORE_UNAVAILABLE").
			With("operation", "create account").
			Wrap(err)
	}

	token, err := s.codec.Issue(account.Email, 0)
	if err != nil {
		return nil, "", oops.Code("AUTH_TOKEN_ISSUE_FAILED").
			With("operation", "issue registration token").
			Wrap(err)
	}

	s.logger.Info("account registered", "email", account.Email, "id", account.ID.String())
	return account, token, nil
}

// Authenticate verifies an email/password pair and issues a session
// token.
//
// The not-found and wrong-password paths return the identical
// AUTH_INVALID_CREDENTIALS failure; a dummy digest is verified when the
// account does not exist so the two paths also take comparable time.
func (s *Service) Authenticate(ctx context.Context, email, secret string) (*Account, string, error) {
	email = NormalizeEmail(email)

	account, lookupErr := s.accounts.GetByEmail(ctx, email)

	targetDigest := dummyDigest
	exists := false
	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return nil, "", oops.Code("STORE_UNAVAILABLE").
				With("operation", "get account by email").
				Wrap(lookupErr)
		}
	} else {
		targetDigest = account.PasswordHash
		exists = true
	}

	// Always run verification so absent accounts cost the same as
	// present ones. Hasher errors on the real digest also collapse into
	// the generic failure - callers never learn the digest was bad.
	valid, verifyErr := s.hasher.Verify(secret, targetDigest)
	if !exists || verifyErr != nil || !valid {
		return nil, "", oops.Code("AUTH_INVALID_CREDENTIALS").Errorf("invalid credentials")
	}

	token, err := s.codec.Issue(account.Email, 0)
	if err != nil {
		return nil, "", oops.Code("AUTH_TOKEN_ISSUE_FAILED").
			With("operation", "issue login token").
			Wrap(err)
	}

	s.logger.Info("account authenticated", "email", account.Email)
	return account, token, nil
}

// Introspect resolves a carrier value to an identity confirmation.
// Missing, invalid, and expired tokens are the normal unauthenticated
// outcome, not errors.
func (s *Service) Introspect(ctx context.Context, carrier string) (Introspection, error) {
	return s.verifier.Introspect(ctx, carrier)
}

// TokenTTL reports the lifetime of tokens the service issues, so the
// transport layer can align cookie expiry with token expiry.
func (s *Service) TokenTTL() time.Duration {
	return s.codec.TTL()
}
