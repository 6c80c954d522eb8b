package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/samber/oops"
	"golang.org/x/crypto/argon2"
)

// OWASP-recommended argon2id parameters.
const (
	argon2Time    = 1         // iterations
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4         // parallelism
	argon2SaltLen = 16        // salt length in bytes
	argon2KeyLen  = 32        // output length in bytes
)

// ErrEmptySecret is returned when attempting to hash an empty secret.
var ErrEmptySecret = oops.Code("AUTH_EMPTY_SECRET").Errorf("secret cannot be empty")

// PasswordHasher provides one-way secret hashing and verification.
// Implementations must be stateless and safe for concurrent use.
type PasswordHasher interface {
	// Hash produces a salted digest of the secret. Each call embeds a
	// fresh random salt, so hashing the same secret twice yields
	// different digests.
	Hash(secret string) (string, error)

	// Verify checks the secret against a stored digest.
	// Returns (true, nil) on match, (false, nil) on mismatch, or
	// (false, error) for digests that cannot be parsed.
	Verify(secret, digest string) (bool, error)
}

// Argon2idHasher implements PasswordHasher using argon2id in PHC string
// format: $argon2id$v=19$m=...,t=...,p=...$<salt>$<hash>.
type Argon2idHasher struct{}

// NewArgon2idHasher creates a new Argon2idHasher.
func NewArgon2idHasher() *Argon2idHasher {
	return &Argon2idHasher{}
}

// argon2Params are the parameters recovered from an encoded digest.
type argon2Params struct {
	memory  uint32
	time    uint32
	threads uint32
	salt    []byte
	key     []byte
}

// Hash produces an argon2id digest of the secret.
func (h *Argon2idHasher) Hash(secret string) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}

	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", oops.Code("AUTH_SALT_FAILED").Wrap(err)
	}

	key := argon2.IDKey([]byte(secret), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argon2Memory,
		argon2Time,
		argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)

	return encoded, nil
}

// Verify recomputes the digest using the salt and parameters embedded in
// it and compares in constant time.
func (h *Argon2idHasher) Verify(secret, digest string) (bool, error) {
	params, err := decodeDigest(digest)
	if err != nil {
		return false, err
	}

	computed := argon2.IDKey(
		[]byte(secret),
		params.salt,
		params.time,
		params.memory,
		uint8(params.threads),
		uint32(len(params.key)),
	)

	return subtle.ConstantTimeCompare(computed, params.key) == 1, nil
}

// decodeDigest parses a PHC-format argon2id digest.
func decodeDigest(digest string) (*argon2Params, error) {
	parts := strings.Split(digest, "$")
	if len(parts) != 6 {
		return nil, oops.Code("AUTH_INVALID_DIGEST").Errorf("invalid digest format")
	}
	if parts[1] != "argon2id" {
		return nil, oops.Code("AUTH_INVALID_DIGEST").Errorf("unsupported hash algorithm: %s", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, oops.Code("AUTH_INVALID_DIGEST").Wrap(err)
	}

	p := &argon2Params{}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil {
		return nil, oops.Code("AUTH_INVALID_DIGEST").Wrap(err)
	}
	// Threads must fit in uint8 to prevent silent truncation in IDKey.
	if p.threads == 0 || p.threads > 255 {
		return nil, oops.Code("AUTH_INVALID_DIGEST").Errorf("threads value %d out of range", p.threads)
	}

	var err error
	p.salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, oops.Code("AUTH_INVALID_DIGEST").Wrap(err)
	}
	p.key, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, oops.Code("AUTH_INVALID_DIGEST").Wrap(err)
	}
	if len(p.key) == 0 || len(p.key) > 1<<30 {
		return nil, oops.Code("AUTH_INVALID_DIGEST").Errorf("invalid digest key length: %d", len(p.key))
	}

	return p, nil
}
