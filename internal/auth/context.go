package auth

import "context"

type contextKey string

const identityKey contextKey = "tracker-auth-identity"

// WithIdentity stores the identity on the context.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext retrieves the identity stored by WithIdentity.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*Identity)
	return identity, ok
}
