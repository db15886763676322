// Package auth implements request authentication and login on top of the
// token codec, the password hasher, the identity cache, and the user store.
package auth

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/nazonexus/identity/errors"
	"github.com/nazonexus/identity/identity"
	"github.com/nazonexus/identity/logger"
	"github.com/nazonexus/identity/password"
	"github.com/nazonexus/identity/token"
	"github.com/nazonexus/identity/user"
)

const bearerPrefix = "Bearer "

// Service resolves request credentials to identities and handles login. All
// dependencies are injected; the service holds no hidden global state.
type Service struct {
	store  user.Store
	hasher *password.Hasher
	codec  *token.Codec
	cache  *identity.Cache
	log    *logger.Logger

	// dummyHash is verified against when the username is unknown, so a
	// failed login costs the same with or without a matching account.
	dummyHash string

	// now is swappable in tests.
	now func() time.Time
}

// NewService wires the authentication service. It precomputes the decoy hash
// used to equalize login timing for unknown usernames.
func NewService(store user.Store, hasher *password.Hasher, codec *token.Codec, cache *identity.Cache, log *logger.Logger) (*Service, error) {
	dummy, err := hasher.Hash("decoy-password-for-timing")
	if err != nil {
		return nil, err
	}
	return &Service{
		store:     store,
		hasher:    hasher,
		codec:     codec,
		cache:     cache,
		log:       log.WithComponent("auth"),
		dummyHash: dummy,
		now:       time.Now,
	}, nil
}

// Authenticate resolves the Authorization header to an identity.
//
// A missing header, or one that is not a Bearer scheme, yields the anonymous
// identity with no error: absence of credentials is not a failure, endpoints
// decide whether anonymous is acceptable. A presented-but-invalid token also
// resolves to anonymous — the failure kind is logged at debug level and never
// surfaces to the caller, so rejected tokens are indistinguishable from no
// token at all. Only a valid token whose subject no longer exists or is
// deactivated fails, with FORBIDDEN.
//
// The cache is consulted on the raw wire token before any verification: a
// hit skips both the signature check and the user lookup. Entry lifetimes
// are capped at the token's own remaining lifetime, so a hit can never
// outlive the token it stands for.
func (s *Service) Authenticate(ctx context.Context, authorization string) (identity.Identity, error) {
	raw, ok := bearerToken(authorization)
	if !ok {
		return identity.Anonymous(), nil
	}

	if ident, hit := s.cache.Get(raw); hit {
		return ident, nil
	}

	claims, err := s.codec.Verify(raw)
	if err != nil {
		s.log.Debug("Token rejected", logger.Fields(logger.FieldReason, err.Error()))
		return identity.Anonymous(), nil
	}
	subject, err := claims.SubjectID()
	if err != nil {
		s.log.Debug("Token rejected", logger.Fields(logger.FieldReason, "sub is not a valid id"))
		return identity.Anonymous(), nil
	}

	u, err := s.store.FindByID(ctx, subject)
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeNotFound) {
			s.log.Warn("Token subject has no account", logger.Fields(
				logger.FieldSubject, subject.String(),
			))
			return identity.Anonymous(), errors.Forbidden("user not found")
		}
		return identity.Anonymous(), err
	}
	if !u.Active {
		return identity.Anonymous(), errors.Forbidden("user is not active")
	}

	ident := u.Identity()
	s.cache.Put(raw, ident, claims.Remaining(s.now()))
	return ident, nil
}

// Login checks username and password and, on success, stamps the login time
// and upgrades the stored hash if its parameters are outdated. The hash
// upgrade and the timestamp persist in one write.
//
// All credential failures surface as the same INVALID_CREDENTIALS error;
// callers cannot distinguish an unknown username from a wrong password.
func (s *Service) Login(ctx context.Context, username, candidate string) (*user.User, error) {
	u, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeNotFound) {
			// Burn the same hashing work as the happy path.
			_ = s.hasher.Verify(s.dummyHash, candidate)
			return nil, errors.InvalidCredentials()
		}
		return nil, err
	}

	if err := s.hasher.Verify(u.PasswordHash, candidate); err != nil {
		if !stderrors.Is(err, password.ErrPasswordMismatch) {
			// A corrupt stored hash is an operator problem; the client
			// still only learns that the credentials were rejected.
			s.log.Error("Stored password hash is unusable", logger.Fields(
				logger.FieldUserID, u.ID.String(),
				logger.FieldError, err.Error(),
			))
		}
		return nil, errors.InvalidCredentials()
	}
	if !u.Active {
		return nil, errors.InvalidCredentials()
	}

	now := s.now().UTC()
	if s.hasher.NeedsRehash(u.PasswordHash) {
		newHash, err := s.hasher.Hash(candidate)
		if err != nil {
			return nil, err
		}
		if err := s.store.UpdatePasswordAndLastLogin(ctx, u.ID, newHash, now); err != nil {
			return nil, err
		}
		u.PasswordHash = newHash
		s.log.Info("Upgraded password hash on login", logger.Fields(
			logger.FieldUserID, u.ID.String(),
		))
	} else {
		if err := s.store.UpdateLastLogin(ctx, u.ID, now); err != nil {
			return nil, err
		}
	}
	u.LastLogin = &now

	s.cache.InvalidateSubject(u.ID)
	return u, nil
}

// IssueToken creates a signed token for u.
func (s *Service) IssueToken(u *user.User) (string, *token.Claims, error) {
	return s.codec.Issue(u.ID)
}

// Register creates a regular account. Uniqueness conflicts surface as
// ALREADY_EXISTS; password length bounds are enforced by the hasher inside
// user.New.
func (s *Service) Register(ctx context.Context, params user.NewUserParams) (*user.User, error) {
	params.Admin = false
	params.Superuser = false
	u, err := user.New(s.hasher, params)
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("Registered user", logger.Fields(
		logger.FieldUserID, u.ID.String(),
		logger.FieldUsername, u.Username,
	))
	return u, nil
}

// BootstrapAdmin creates the first account as a superuser. It refuses to run
// once any account exists, so the endpoint is only usable on a fresh install.
func (s *Service) BootstrapAdmin(ctx context.Context, params user.NewUserParams) (*user.User, error) {
	n, err := s.store.Count(ctx)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, errors.Forbidden("bootstrap is only available on an empty installation")
	}

	params.Admin = true
	params.Superuser = true
	u, err := user.New(s.hasher, params)
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("Bootstrapped admin user", logger.Fields(
		logger.FieldUserID, u.ID.String(),
		logger.FieldUsername, u.Username,
	))
	return u, nil
}

// bearerToken extracts the token from an Authorization header value. The
// scheme comparison is case-insensitive per RFC 7235.
func bearerToken(authorization string) (string, bool) {
	if len(authorization) <= len(bearerPrefix) {
		return "", false
	}
	if !strings.EqualFold(authorization[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	raw := strings.TrimSpace(authorization[len(bearerPrefix):])
	if raw == "" {
		return "", false
	}
	return raw, true
}
