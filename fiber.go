package auth

import (
	"github.com/gofiber/fiber/v2"
)

// GetSession extracts the auth session from a fiber request. It expects the
// JWT middleware to have stored the validated claims in locals, which is what
// happens when the app runs go-router on the fiber adapter.
func GetSession(c *fiber.Ctx, key string) (Session, error) {
	raw := c.Locals(key)
	if raw == nil {
		return nil, ErrUnableToFindSession
	}

	claims, ok := raw.(*TokenClaims)
	if claims == nil || !ok {
		return nil, ErrUnableToDecodeSession
	}

	return SessionFromClaims(claims)
}
