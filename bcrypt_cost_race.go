//go:build race

package auth

import "golang.org/x/crypto/bcrypt"

// Race-enabled builds pay a heavy instrumentation tax on bcrypt; drop to the
// default cost so the suite stays inside test timeouts.
func passwordHashCost() int {
	return bcrypt.DefaultCost
}
