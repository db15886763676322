package token

import (
	stderrors "errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nazonexus/identity/config"
	"github.com/nazonexus/identity/errors"
	"github.com/nazonexus/identity/keys"
)

// Codec issues and verifies wire tokens.
type Codec struct {
	issuer   string
	lifetime time.Duration
	keys     *keys.Manager

	// now is swappable in tests.
	now func() time.Time
}

// NewCodec creates a Codec using the jwt section of the configuration and the
// loaded key manager.
func NewCodec(cfg config.JWTConfig, km *keys.Manager) *Codec {
	return &Codec{
		issuer:   cfg.Issuer,
		lifetime: cfg.Lifetime(),
		keys:     km,
		now:      time.Now,
	}
}

// Issue creates a signed wire token for subject. The payload carries the
// configured issuer, iat=now, exp=now+lifetime, and a fresh jti.
func (c *Codec) Issue(subject uuid.UUID) (string, *Claims, error) {
	now := c.now().UTC()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.String(),
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.lifetime)),
			ID:        uuid.NewString(),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	signed, err := tok.SignedString(c.keys.Private())
	if err != nil {
		return "", nil, fmt.Errorf("token: sign: %w", err)
	}
	return signed, claims, nil
}

// Verify parses raw, verifies its signature against the public key, and
// validates the claims. Structure is checked first, the signature second, and
// claim values (expiry, issuer, subject) only after the signature verified —
// claim values from an unverified token are never trusted.
func (c *Codec) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, c.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(func() time.Time { return c.now() }),
	)
	if err != nil {
		return nil, c.mapParseError(err)
	}
	if !tok.Valid {
		return nil, errors.TokenSignatureInvalid()
	}

	if claims.Subject == "" {
		return nil, errors.TokenMalformed("missing sub claim")
	}
	if _, err := claims.SubjectID(); err != nil {
		return nil, errors.TokenMalformed("sub is not a valid id")
	}
	return claims, nil
}

// keyFunc rejects any algorithm other than EdDSA before handing out the
// verification key.
func (c *Codec) keyFunc(tok *jwt.Token) (interface{}, error) {
	if tok.Method.Alg() != jwt.SigningMethodEdDSA.Alg() {
		return nil, fmt.Errorf("unexpected signing method: %s", tok.Method.Alg())
	}
	return c.keys.Public(), nil
}

// mapParseError translates golang-jwt failures into the error taxonomy.
// Signature failures take precedence over claim validation failures so a
// forged token never learns which claim was off. A missing required claim is
// a structural defect, checked before the issuer comparison: issuer mismatch
// is reserved for tokens that carry an iss and carry the wrong one.
func (c *Codec) mapParseError(err error) *errors.AppError {
	switch {
	case stderrors.Is(err, jwt.ErrTokenMalformed):
		return errors.TokenMalformed(err.Error())
	case stderrors.Is(err, jwt.ErrTokenSignatureInvalid),
		stderrors.Is(err, jwt.ErrTokenUnverifiable):
		return errors.TokenSignatureInvalid()
	case stderrors.Is(err, jwt.ErrTokenExpired):
		return errors.TokenExpired()
	case stderrors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return errors.TokenMalformed("missing required claim")
	case stderrors.Is(err, jwt.ErrTokenInvalidIssuer):
		return errors.TokenIssuerMismatch(c.issuer)
	default:
		return errors.TokenMalformed(err.Error())
	}
}
