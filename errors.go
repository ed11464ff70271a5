package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// Machine readable text codes carried by the structured errors so the web
// layer can map outcomes without parsing messages.
const (
	TextCodeAuthorizationRequired = "AUTHORIZATION_REQUIRED"
	TextCodeInvalidToken          = "INVALID_TOKEN"
	TextCodeTokenExpired          = "TOKEN_EXPIRED"
	TextCodeTokenMalformed        = "TOKEN_MALFORMED"
	TextCodeInvalidCreds          = "INVALID_CREDENTIALS"
	TextCodeTooManyAttempts       = "TOO_MANY_ATTEMPTS"
	TextCodeEmptyPassword         = "EMPTY_PASSWORD"
	TextCodeMissingSigningKey     = "MISSING_SIGNING_KEY"
	TextCodeAccountInactive       = "ACCOUNT_INACTIVE"
	TextCodeEmailTaken            = "EMAIL_TAKEN"
	TextCodeSessionNotFound       = "SESSION_NOT_FOUND"
	TextCodeSessionDecode         = "SESSION_DECODE_ERROR"
)

// ErrUnableToFindSession is the error when our request has no session claims
var ErrUnableToFindSession = errors.New("unable to find session", errors.CategoryAuth).
	WithTextCode(TextCodeSessionNotFound).
	WithCode(errors.CodeUnauthorized)

// ErrUnableToDecodeSession is the error when the session locals hold an
// unexpected value
var ErrUnableToDecodeSession = errors.New("unable to decode session", errors.CategoryAuth).
	WithTextCode(TextCodeSessionDecode).
	WithCode(errors.CodeUnauthorized)

// ErrAuthorizationRequired is returned when no credential was supplied at all.
var ErrAuthorizationRequired = errors.New("authorization required", errors.CategoryAuth).
	WithTextCode(TextCodeAuthorizationRequired).
	WithCode(errors.CodeUnauthorized)

// ErrInvalidToken is the single rejection for any credential that was present
// but did not resolve to a principal: bad signature, wrong type, expiry,
// missing claims, or an unknown subject. Callers cannot tell those apart.
var ErrInvalidToken = errors.New("invalid token", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidToken)

// ErrTokenExpired is used by the HTTP error handlers to classify raw
// middleware failures; the codec itself reports ErrInvalidToken.
var ErrTokenExpired = errors.New("the authentication token expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed mirrors ErrTokenExpired for structurally broken tokens.
var ErrTokenMalformed = errors.New("the authentication token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed)

// ErrIdentityNotFound is the error we return for non found identities.
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound)

// ErrMismatchedHashAndPassword is returned on credential verification failure.
// Unknown email and wrong password intentionally produce the same error.
var ErrMismatchedHashAndPassword = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds)

// ErrTooManyLoginAttempts is returned while an account is cooling down.
var ErrTooManyLoginAttempts = errors.New("too many login attempts", errors.CategoryRateLimit).
	WithTextCode(TextCodeTooManyAttempts)

// ErrAccountInactive is returned when the account exists but is deactivated.
var ErrAccountInactive = errors.New("account is inactive", errors.CategoryAuth).
	WithTextCode(TextCodeAccountInactive)

// ErrNoEmptyString rejects empty passwords before they reach bcrypt.
var ErrNoEmptyString = errors.New("value must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword)

// ErrMissingSigningKey is a startup configuration failure; it is never
// produced during token operations.
var ErrMissingSigningKey = errors.New("signing key is not configured", errors.CategoryValidation).
	WithTextCode(TextCodeMissingSigningKey)

// ErrEmailTaken is returned when registering with an email that already has
// an account.
var ErrEmailTaken = errors.New("the email is already in use", errors.CategoryConflict).
	WithTextCode(TextCodeEmailTaken)

// IsAuthorizationRequired reports whether err means "no credential supplied".
func IsAuthorizationRequired(err error) bool {
	return hasTextCode(err, TextCodeAuthorizationRequired)
}

// IsInvalidTokenError reports whether err is the uniform credential rejection.
func IsInvalidTokenError(err error) bool {
	return hasTextCode(err, TextCodeInvalidToken)
}

func hasTextCode(err error, code string) bool {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return false
	}
	return richErr.TextCode == code
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if hasTextCode(err, TextCodeTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if hasTextCode(err, TextCodeTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
