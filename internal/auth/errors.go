package auth

import "errors"

// ErrNotFound is returned when a requested account does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateIdentity is returned when an email is already registered.
// The account store enforces this atomically at insert time.
var ErrDuplicateIdentity = errors.New("duplicate identity")

// ErrTokenInvalid is returned for tokens that are malformed, carry an
// unexpected signing method, or fail signature verification. The parse
// path never reports which of those checks failed.
var ErrTokenInvalid = errors.New("invalid token")

// ErrTokenExpired is returned for tokens that are validly signed but past
// their expiry. Kept distinct from ErrTokenInvalid for diagnostics; both
// surface to end users as "unauthenticated".
var ErrTokenExpired = errors.New("token expired")
