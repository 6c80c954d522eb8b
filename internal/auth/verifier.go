package auth

import (
	"context"
	"errors"

	"github.com/samber/oops"
)

// Introspection is the result of resolving a carried session token.
// Authenticated is false for a missing, malformed, forged, or expired
// token, and for tokens whose account no longer exists. None of those
// are errors, just the normal unauthenticated outcome.
type Introspection struct {
	Authenticated bool
	Email         string
	Username      string
}

// Verifier resolves carrier values (cookie contents) into identity
// confirmations. After the token decodes, the account is re-resolved
// against the store so tokens issued before an account was removed stop
// verifying.
type Verifier struct {
	codec    *TokenCodec
	accounts AccountRepository
}

// NewVerifier creates a Verifier.
func NewVerifier(codec *TokenCodec, accounts AccountRepository) (*Verifier, error) {
	if codec == nil {
		return nil, oops.Code("AUTH_NIL_DEPENDENCY").Errorf("token codec is required")
	}
	if accounts == nil {
		return nil, oops.Code("AUTH_NIL_DEPENDENCY").Errorf("account repository is required")
	}
	return &Verifier{codec: codec, accounts: accounts}, nil
}

// Introspect decodes and validates a carrier value. The only error
// return is a storage fault during the account re-check; everything else
// resolves to an unauthenticated Introspection.
func (v *Verifier) Introspect(ctx context.Context, carrier string) (Introspection, error) {
	if carrier == "" {
		return Introspection{}, nil
	}

	claims, err := v.codec.Parse(carrier)
	if err != nil {
		// Invalid and expired tokens behave identically to no token.
		return Introspection{}, nil
	}

	account, err := v.accounts.GetByEmail(ctx, claims.Identity())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Introspection{}, nil
		}
		return Introspection{}, oops.Code("STORE_UNAVAILABLE").
			With("operation", "resolve token identity").
			Wrap(err)
	}

	return Introspection{
		Authenticated: true,
		Email:         account.Email,
		Username:      account.Username,
	}, nil
}
