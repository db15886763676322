// Package authctx propagates the resolved request identity through
// context.Context, so handlers and downstream code read the caller without
// threading it through every signature.
package authctx

import (
	"context"

	"github.com/nazonexus/identity/identity"
)

// contextKey is unexported to prevent collisions with other packages.
type contextKey struct{}

var identityKey = contextKey{}

// Set stores the resolved identity in the context. The middleware calls this
// exactly once per request, for anonymous callers too.
func Set(ctx context.Context, ident identity.Identity) context.Context {
	return context.WithValue(ctx, identityKey, ident)
}

// Get retrieves the identity from the context. The second return is false
// when no middleware ran for this context.
func Get(ctx context.Context) (identity.Identity, bool) {
	ident, ok := ctx.Value(identityKey).(identity.Identity)
	return ident, ok
}

// MustGet retrieves the identity and panics when it is absent. Use only
// behind middleware that guarantees an identity was set.
func MustGet(ctx context.Context) identity.Identity {
	ident, ok := Get(ctx)
	if !ok {
		panic("authctx: no identity in context")
	}
	return ident
}
