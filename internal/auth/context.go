package auth

import "context"

type contextKey string

const identityKey = contextKey("identity")

// WithIdentity returns a copy of ctx carrying verified claims.
func WithIdentity(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, identityKey, claims)
}

// IdentityFromContext returns the claims placed by the token verifier.
func IdentityFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(identityKey).(*Claims)
	return claims, ok && claims != nil
}
