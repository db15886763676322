// Package password provides Argon2id password hashing for the identity core.
//
// Hashes are stored in the PHC string format
// ($argon2id$v=19$m=...,t=...,p=...$salt$hash), so every hash self-describes
// the parameters and salt it was produced with and verification never needs
// out-of-band parameter lookup. NeedsRehash compares a stored hash's
// parameters against the currently configured ones, which is how hashes are
// upgraded transparently on successful login.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/argon2"

	"github.com/nazonexus/identity/errors"
)

// ErrPasswordMismatch is returned by Verify when the candidate password does
// not match the stored hash.
var ErrPasswordMismatch = stderrors.New("password: mismatch")

// Hasher hashes and verifies passwords with Argon2id.
type Hasher struct {
	time      uint32
	memory    uint32
	threads   uint8
	keyLen    uint32
	saltLen   int
	minLength int
	maxLength int
}

// Option configures the hasher.
type Option func(*Hasher)

// WithTime sets the number of iterations.
func WithTime(t uint32) Option {
	return func(h *Hasher) {
		if t > 0 {
			h.time = t
		}
	}
}

// WithMemory sets the memory usage in KiB.
func WithMemory(m uint32) Option {
	return func(h *Hasher) {
		if m > 0 {
			h.memory = m
		}
	}
}

// WithThreads sets the parallelism.
func WithThreads(t uint8) Option {
	return func(h *Hasher) {
		if t > 0 {
			h.threads = t
		}
	}
}

// WithLengthBounds sets the accepted password length range.
func WithLengthBounds(min, max int) Option {
	return func(h *Hasher) {
		if min > 0 && max >= min {
			h.minLength = min
			h.maxLength = max
		}
	}
}

// NewHasher creates an Argon2id hasher. Defaults: time=3, memory=64MB,
// threads=4, length bounds [6,128].
func NewHasher(opts ...Option) *Hasher {
	h := &Hasher{
		time:      3,
		memory:    64 * 1024,
		threads:   4,
		keyLen:    32,
		saltLen:   16,
		minLength: 6,
		maxLength: 128,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Hash returns the PHC-encoded Argon2id hash of password. Passwords outside
// the configured length bounds are rejected. Bounds count characters, not
// bytes, so multi-byte passwords are not penalized.
func (h *Hasher) Hash(password string) (string, error) {
	length := utf8.RuneCountInString(password)
	if length < h.minLength {
		return "", errors.PasswordTooShort(h.minLength)
	}
	if length > h.maxLength {
		return "", errors.PasswordTooLong(h.maxLength)
	}

	salt := make([]byte, h.saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("password: generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, h.time, h.memory, h.threads, h.keyLen)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.memory, h.time, h.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	)
	return encoded, nil
}

// Verify checks candidate against the stored PHC hash. It returns nil on a
// match, ErrPasswordMismatch on a mismatch, and a CORRUPT_HASH error when
// stored is not a recognized encoding. The hash is recomputed with the
// parameters recorded in the stored string, not the configured ones.
func (h *Hasher) Verify(stored, candidate string) error {
	params, salt, expected, err := decode(stored)
	if err != nil {
		return err
	}

	hash := argon2.IDKey([]byte(candidate), salt, params.time, params.memory, params.threads, uint32(len(expected)))
	if subtle.ConstantTimeCompare(hash, expected) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}

// NeedsRehash reports whether stored was produced with parameters different
// from the hasher's current configuration and should be regenerated on the
// next successful login. Corrupt hashes report true so they get replaced.
func (h *Hasher) NeedsRehash(stored string) bool {
	params, _, _, err := decode(stored)
	if err != nil {
		return true
	}
	return params.time != h.time || params.memory != h.memory || params.threads != h.threads
}

type phcParams struct {
	time    uint32
	memory  uint32
	threads uint8
}

// decode parses a PHC-encoded argon2id string into parameters, salt, and hash.
func decode(stored string) (phcParams, []byte, []byte, error) {
	var p phcParams

	parts := strings.Split(stored, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return p, nil, nil, errors.CorruptHash("not an argon2id PHC string")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return p, nil, nil, errors.CorruptHash("unsupported argon2 version")
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil {
		return p, nil, nil, errors.CorruptHash("unparsable parameters")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return p, nil, nil, errors.CorruptHash("invalid salt encoding")
	}
	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return p, nil, nil, errors.CorruptHash("invalid hash encoding")
	}

	return p, salt, hash, nil
}
