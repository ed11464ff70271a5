package auth

import (
	"context"

	"github.com/ushort/go-auth/middleware/jwtware"
)

// ValidationListener aliases the jwtware listener so consumers can use auth
// helpers directly.
type ValidationListener = jwtware.ValidationListener

// ContextEnricherAdapter propagates validated claims into the standard
// context so code below the HTTP layer can read them with GetClaims.
func ContextEnricherAdapter(c context.Context, claims jwtware.AuthClaims) context.Context {
	tokenClaims, ok := claims.(*TokenClaims)
	if !ok {
		return c
	}

	return WithClaimsContext(c, tokenClaims)
}

// RegisterValidationListeners appends listeners to a jwtware.Config in a
// safe, reusable way.
func RegisterValidationListeners(cfg *jwtware.Config, listeners ...ValidationListener) {
	if cfg == nil || len(listeners) == 0 {
		return
	}
	cfg.ValidationListeners = append(cfg.ValidationListeners, listeners...)
}
