package auth

import (
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword derives a bcrypt hash for storage. Empty passwords are
// rejected before hashing so they can never round-trip as valid credentials.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost())
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// ComparePasswordAndHash checks a cleartext password against a stored hash,
// mapping bcrypt's mismatch error into the package error taxonomy.
func ComparePasswordAndHash(password, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return nil
	}

	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatchedHashAndPassword
	}

	return err
}

// RandomPasswordHash produces a hash of an unguessable throwaway password.
// Useful when provisioning accounts that must not be password-loginable yet.
func RandomPasswordHash() string {
	hash, err := HashPassword(uuid.NewString())
	if err != nil {
		return RandomPasswordHash()
	}

	return hash
}
