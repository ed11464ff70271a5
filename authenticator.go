package auth

import (
	"context"
	"strings"

	"github.com/goliatone/go-errors"
)

// TokenPair is the access/refresh pair minted at login and on refresh.
type TokenPair struct {
	Access  string `json:"access_token"`
	Refresh string `json:"refresh_token"`
}

// Auther turns raw bearer credentials into authenticated identities. It owns
// the per-request authentication state machine:
//
//	no credential          -> ErrAuthorizationRequired
//	codec rejects token    -> ErrInvalidToken
//	unknown subject        -> ErrInvalidToken
//	resolved identity      -> success
//
// A valid signature over a nonexistent subject is deliberately reported the
// same way as a garbage token, so deleted accounts are indistinguishable from
// forgeries.
type Auther struct {
	store    IdentityStore
	tokens   TokenService
	logger   Logger
	activity ActivitySink
}

// NewAuthenticator returns a new Authenticator backed by the given identity
// store. Configuration problems (missing signing key) surface here.
func NewAuthenticator(store IdentityStore, cfg Config) (*Auther, error) {
	tokens, err := NewTokenService(cfg, defLogger{})
	if err != nil {
		return nil, err
	}

	return &Auther{
		store:    store,
		tokens:   tokens,
		logger:   defLogger{},
		activity: noopActivitySink{},
	}, nil
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	return s
}

// WithActivitySink routes audit events (logins, refreshes) to the given sink.
func (s *Auther) WithActivitySink(sink ActivitySink) *Auther {
	s.activity = normalizeActivitySink(sink)
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokens
}

// Login verifies the email/password pair and mints a fresh token pair.
func (s *Auther) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	identity, err := s.store.VerifyIdentity(ctx, email, password)
	if err != nil {
		s.logger.Error("Login verify identity error", "error", err)
		s.recordActivity(ctx, ActivityEventLoginFailure, nil, map[string]any{"email": email})
		return nil, err
	}

	if identity == nil {
		s.logger.Error("Login identity is nil")
		return nil, ErrMismatchedHashAndPassword
	}

	pair, err := s.mintPair(identity)
	if err != nil {
		return nil, err
	}

	s.recordActivity(ctx, ActivityEventLoginSuccess, identity, nil)
	return pair, nil
}

// CurrentIdentity resolves a raw access token to its principal. This is the
// precondition used by every protected operation.
func (s *Auther) CurrentIdentity(ctx context.Context, rawToken string) (Identity, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, ErrAuthorizationRequired
	}

	claims, err := s.tokens.Validate(rawToken, TokenTypeAccess)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return s.resolveSubject(ctx, claims)
}

// Refresh validates a refresh token and mints a new access/refresh pair for
// its principal. The old refresh token is not invalidated; it stays usable
// until natural expiry.
func (s *Auther) Refresh(ctx context.Context, rawToken string) (*TokenPair, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, ErrAuthorizationRequired
	}

	claims, err := s.tokens.Validate(rawToken, TokenTypeRefresh)
	if err != nil {
		return nil, ErrInvalidToken
	}

	identity, err := s.resolveSubject(ctx, claims)
	if err != nil {
		return nil, err
	}

	pair, err := s.mintPair(identity)
	if err != nil {
		return nil, err
	}

	s.recordActivity(ctx, ActivityEventTokenRefreshed, identity, nil)
	return pair, nil
}

func (s *Auther) resolveSubject(ctx context.Context, claims *TokenClaims) (Identity, error) {
	id, err := claims.UserID()
	if err != nil {
		s.logger.Debug("authentication subject is not numeric", "sub", claims.Subject())
		return nil, ErrInvalidToken
	}

	identity, err := s.store.FindIdentityByID(ctx, id)
	if err != nil {
		if !errors.IsNotFound(err) {
			s.logger.Error("authentication identity lookup error", "error", err)
		}
		return nil, ErrInvalidToken
	}

	if identity == nil {
		return nil, ErrInvalidToken
	}

	return identity, nil
}

func (s *Auther) mintPair(identity Identity) (*TokenPair, error) {
	access, err := s.tokens.Generate(TokenTypeAccess, identity)
	if err != nil {
		s.logger.Error("failed to sign access token", "error", err)
		return nil, err
	}

	refresh, err := s.tokens.Generate(TokenTypeRefresh, identity)
	if err != nil {
		s.logger.Error("failed to sign refresh token", "error", err)
		return nil, err
	}

	return &TokenPair{Access: access, Refresh: refresh}, nil
}

var _ Authenticator = (*Auther)(nil)
