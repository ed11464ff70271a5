package auth

import (
	"github.com/goliatone/go-errors"
	"github.com/ushort/go-auth/generator"
)

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetSigningMethod() string
	GetIssuer() string
	GetAccessTokenMinutes() int
	GetRefreshTokenDays() int
	GetWorkerID() int64
	GetContextKey() string
	GetTokenLookup() string
	GetAuthScheme() string
}

// RuntimeConfig is the concrete configuration constructed once at process
// start and injected into the constructors. No ambient globals, no reload.
type RuntimeConfig struct {
	SigningKey         string
	SigningMethod      string
	Issuer             string
	AccessTokenMinutes int
	RefreshTokenDays   int
	WorkerID           int64
	ContextKey         string
	TokenLookup        string
	AuthScheme         string
}

// NewRuntimeConfig returns a RuntimeConfig with the backend defaults: HS256,
// 60 minute access tokens, 30 day refresh tokens, and a token lookup that
// checks the Authorization header first and the access_token cookie second.
func NewRuntimeConfig(signingKey string) RuntimeConfig {
	return RuntimeConfig{
		SigningKey:         signingKey,
		SigningMethod:      "HS256",
		Issuer:             "ushort",
		AccessTokenMinutes: 60,
		RefreshTokenDays:   30,
		WorkerID:           generator.MaxWorkerID,
		ContextKey:         "user",
		TokenLookup:        "header:Authorization,cookie:access_token",
		AuthScheme:         "Bearer",
	}
}

func (c RuntimeConfig) GetSigningKey() string      { return c.SigningKey }
func (c RuntimeConfig) GetSigningMethod() string   { return c.SigningMethod }
func (c RuntimeConfig) GetIssuer() string          { return c.Issuer }
func (c RuntimeConfig) GetAccessTokenMinutes() int { return c.AccessTokenMinutes }
func (c RuntimeConfig) GetRefreshTokenDays() int   { return c.RefreshTokenDays }
func (c RuntimeConfig) GetWorkerID() int64         { return c.WorkerID }
func (c RuntimeConfig) GetContextKey() string      { return c.ContextKey }
func (c RuntimeConfig) GetTokenLookup() string     { return c.TokenLookup }
func (c RuntimeConfig) GetAuthScheme() string      { return c.AuthScheme }

// Validate enforces the startup invariants. It is meant to run once during
// boot; a failure here is fatal and never recovered at call time.
func (c RuntimeConfig) Validate() error {
	if c.SigningKey == "" {
		return ErrMissingSigningKey
	}

	if c.SigningMethod != "HS256" {
		return errors.New("unsupported signing method", errors.CategoryValidation).
			WithMetadata(map[string]any{"method": c.SigningMethod})
	}

	if c.AccessTokenMinutes <= 0 {
		return errors.New("access token lifetime must be positive", errors.CategoryValidation)
	}

	if c.RefreshTokenDays <= 0 {
		return errors.New("refresh token lifetime must be positive", errors.CategoryValidation)
	}

	if c.WorkerID < generator.MinWorkerID || c.WorkerID > generator.MaxWorkerID {
		clone := generator.ErrWorkerIDOutOfRange.Clone()
		clone.Source = generator.ErrWorkerIDOutOfRange
		return clone.WithMetadata(map[string]any{"worker_id": c.WorkerID})
	}

	return nil
}

var _ Config = RuntimeConfig{}
