package auth

import (
	"context"

	"github.com/goliatone/go-router"
)

type contextKey struct{ name string }

var (
	userCtxKey   = &contextKey{"auth.user"}
	claimsCtxKey = &contextKey{"auth.claims"}
)

// WithContext stashes the resolved User in the request context.
func WithContext(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userCtxKey, user)
}

// FromContext retrieves the User stored by WithContext, if any.
func FromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userCtxKey).(*User)
	return user, ok
}

// WithClaimsContext stashes validated token claims in the request context so
// layers below the HTTP handlers can read them without router types.
func WithClaimsContext(ctx context.Context, claims *TokenClaims) context.Context {
	return context.WithValue(ctx, claimsCtxKey, claims)
}

// GetClaims retrieves the claims stored by WithClaimsContext, if any.
func GetClaims(ctx context.Context) (*TokenClaims, bool) {
	claims, ok := ctx.Value(claimsCtxKey).(*TokenClaims)
	return claims, ok
}

// GetRouterClaims reads validated claims out of the router locals, where the
// JWT middleware stores them. An empty key falls back to the middleware's
// default context key.
func GetRouterClaims(ctx router.Context, key string) (*TokenClaims, bool) {
	if key == "" {
		key = "user"
	}

	raw := ctx.Locals(key)
	if raw == nil {
		return nil, false
	}

	claims, ok := raw.(*TokenClaims)
	return claims, ok
}
