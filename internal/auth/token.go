package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/oops"
)

// DefaultTokenTTL is the session token lifetime used when the caller
// does not supply one.
const DefaultTokenTTL = 72 * time.Hour

// SessionClaims are the claims carried by a session token: the account's
// identity as subject, plus issued-at and expiry. Nothing else is
// encoded; the token is a bearer credential, not a profile.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// Identity returns the subject identity the token was issued for.
func (c *SessionClaims) Identity() string {
	return c.Subject
}

// TokenCodec creates and parses signed session tokens. The signing key
// is fixed at construction and treated as immutable for the process
// lifetime; rotating it invalidates all outstanding tokens.
type TokenCodec struct {
	key []byte
	ttl time.Duration
}

// NewTokenCodec creates a TokenCodec with the given signing key and
// default TTL. A zero or negative ttl selects DefaultTokenTTL.
func NewTokenCodec(key []byte, ttl time.Duration) (*TokenCodec, error) {
	if len(key) == 0 {
		return nil, oops.Code("AUTH_SIGNING_KEY_EMPTY").Errorf("signing key cannot be empty")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenCodec{key: key, ttl: ttl}, nil
}

// TTL returns the codec's default token lifetime.
func (tc *TokenCodec) TTL() time.Duration {
	return tc.ttl
}

// Issue signs a session token for the given identity. A zero or negative
// ttl selects the codec default.
func (tc *TokenCodec) Issue(identity string, ttl time.Duration) (string, error) {
	if identity == "" {
		return "", oops.Code("AUTH_INVALID_INPUT").Errorf("token identity cannot be empty")
	}
	if ttl <= 0 {
		ttl = tc.ttl
	}

	now := time.Now()
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tc.key)
	if err != nil {
		return "", oops.Code("AUTH_TOKEN_SIGN_FAILED").Wrap(err)
	}
	return signed, nil
}

// Parse verifies a token's signature and expiry and returns its claims.
//
// The signature check runs first and independently of the expiry check:
// a forged token is ErrTokenInvalid regardless of its claimed expiry,
// while a validly signed but stale token is ErrTokenExpired. Malformed
// input and unexpected signing methods are ErrTokenInvalid; the error
// never reveals which verification step failed.
func (tc *TokenCodec) Parse(token string) (*SessionClaims, error) {
	claims := &SessionClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return tc.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		// Expiry is only reported once the signature has verified, so it
		// is safe to distinguish here without leaking signing detail.
		if errors.Is(err, jwt.ErrTokenExpired) && !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
