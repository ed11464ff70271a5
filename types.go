package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-router"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an authenticated principal.
type Identity interface {
	ID() int64
	Name() string
	Email() string
}

// IdentityStore is the principal lookup collaborator consumed by the
// authenticator. FindIdentityByID must tolerate arbitrary, possibly forged
// IDs and report ErrIdentityNotFound rather than failing.
type IdentityStore interface {
	FindIdentityByID(ctx context.Context, id int64) (Identity, error)
	FindIdentityByEmail(ctx context.Context, email string) (Identity, error)
	VerifyIdentity(ctx context.Context, email, password string) (Identity, error)
}

// Authenticator holds methods to deal with authentication
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*TokenPair, error)
	CurrentIdentity(ctx context.Context, rawToken string) (Identity, error)
	Refresh(ctx context.Context, rawToken string) (*TokenPair, error)
	TokenService() TokenService
}

// HTTPAuthenticator is the route-facing surface of the authenticator: cookie
// management plus the protected-route middleware.
type HTTPAuthenticator interface {
	Login(c router.Context, payload LoginPayload) (*TokenPair, error)
	Refresh(c router.Context, rawToken string) (*TokenPair, error)
	Logout(c router.Context)
	ProtectedRoute(cfg Config, errorHandler func(router.Context, error) error) router.MiddlewareFunc
	MakeClientRouteAuthErrorHandler(optional bool) func(router.Context, error) error
}

// TokenService signs and validates the typed tokens issued by the backend.
type TokenService interface {
	Generate(tokenType TokenType, identity Identity) (string, error)
	SignClaims(tokenType TokenType, claims *TokenClaims) (string, error)
	Validate(raw string, tokenType TokenType) (*TokenClaims, error)
}

// TokenValidator validates access tokens for the HTTP middleware.
type TokenValidator interface {
	Validate(raw string) (*TokenClaims, error)
}

// Session holds attributes that are part of an auth session
type Session interface {
	GetUserID() string
	GetUserInt64() (int64, error)
	GetName() string
	GetEmail() string
	GetIssuer() string
	GetIssuedAt() *time.Time
	GetData() map[string]any
}

type LoginPayload interface {
	GetIdentifier() string
	GetPassword() string
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
