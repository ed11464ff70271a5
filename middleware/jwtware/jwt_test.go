package jwtware_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/ushort/go-auth/middleware/jwtware"
)

type stubClaims struct{}

func (stubClaims) Subject() string        { return "42" }
func (stubClaims) UserID() (int64, error) { return 42, nil }
func (stubClaims) Expires() time.Time     { return time.Time{} }
func (stubClaims) IssuedAt() time.Time    { return time.Time{} }

func TestGetExtractors(t *testing.T) {
	t.Run("parses each lookup source", func(t *testing.T) {
		extractors := jwtware.GetExtractors("header:Authorization,cookie:access_token,query:auth_token,param:token")
		assert.Len(t, extractors, 4)
	})

	t.Run("skips malformed entries", func(t *testing.T) {
		extractors := jwtware.GetExtractors("header:Authorization,bogus,cookie")
		assert.Len(t, extractors, 1)
	})

	t.Run("tolerates whitespace", func(t *testing.T) {
		extractors := jwtware.GetExtractors("header: Authorization , cookie: access_token")
		assert.Len(t, extractors, 2)
	})

	t.Run("unknown sources are ignored", func(t *testing.T) {
		extractors := jwtware.GetExtractors("body:token")
		assert.Len(t, extractors, 0)
	})
}

func TestGetDefaultConfig(t *testing.T) {
	t.Run("fills in defaults", func(t *testing.T) {
		cfg := jwtware.GetDefaultConfig(jwtware.Config{
			TokenValidator: jwtware.TokenValidatorFunc(func(raw string) (jwtware.AuthClaims, error) {
				return stubClaims{}, nil
			}),
		})

		assert.Equal(t, "user", cfg.ContextKey)
		assert.Equal(t, "Bearer", cfg.AuthScheme)
		assert.NotEmpty(t, cfg.TokenLookup)
		assert.NotNil(t, cfg.SuccessHandler)
		assert.NotNil(t, cfg.ErrorHandler)
	})

	t.Run("panics without a validator", func(t *testing.T) {
		assert.Panics(t, func() {
			jwtware.GetDefaultConfig(jwtware.Config{})
		})
	})
}
