// Package token builds, signs, and verifies the wire tokens exchanged over
// HTTP. Tokens are JWTs signed with the Ed25519 key pair owned by the keys
// package; the algorithm is fixed to EdDSA and the header must declare it
// exactly.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the token payload. Immutable once issued.
//
// Required claims: sub (subject id), iss (issuer), exp, iat. jti is a fresh
// unique value per issuance, kept for revocation and audit trails; it is not
// currently checked against a blocklist.
type Claims struct {
	jwt.RegisteredClaims
}

// SubjectID returns the sub claim parsed as a UUID.
func (c *Claims) SubjectID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// Remaining returns the time left until the token expires. It is zero or
// negative for expired tokens.
func (c *Claims) Remaining(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Time.Sub(now)
}
