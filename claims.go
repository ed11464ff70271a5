package auth

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/golang-jwt/jwt/v5"
)

// TokenType discriminates access from refresh tokens. It travels in the JWT
// header, not the payload, so it can be checked before the signature.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

func (t TokenType) String() string { return string(t) }

// Valid reports whether t is one of the two known token types.
func (t TokenType) Valid() bool {
	return t == TokenTypeAccess || t == TokenTypeRefresh
}

// Claim names the codec treats as structured. Everything else round-trips
// through the Extra map untouched.
const (
	claimSubject = "sub"
	claimName    = "name"
	claimEmail   = "email"
	claimIssued  = "iat"
	claimExpires = "exp"
	claimTokenID = "jti"
	claimIssuer  = "iss"
)

// TokenClaims is the claim set carried by every ushort token: the subject
// (string form of the user's snowflake ID), a denormalized name/email
// snapshot taken at issuance, and the issued/expiry timestamps. Extra holds
// caller-supplied claims that are passed through verbatim.
type TokenClaims struct {
	jwt.RegisteredClaims
	Name  string
	Email string
	Extra map[string]any
}

// NewTokenClaims builds the claim set for an identity. Timestamps are left
// unset; the token service stamps them at signing time.
func NewTokenClaims(identity Identity, extra map[string]any) *TokenClaims {
	return &TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: strconv.FormatInt(identity.ID(), 10),
		},
		Name:  identity.Name(),
		Email: identity.Email(),
		Extra: extra,
	}
}

// Subject returns the subject claim
func (c *TokenClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID parses the subject claim back into the numeric principal ID.
func (c *TokenClaims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.RegisteredClaims.Subject, 10, 64)
	if err != nil {
		return 0, errors.Wrap(err, errors.CategoryBadInput, "subject is not a numeric ID")
	}
	return id, nil
}

// Expires returns the expiration time
func (c *TokenClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *TokenClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// hasRequiredClaims checks the claim presence rules the codec enforces after
// signature verification: sub, name, email, exp, iat.
func (c *TokenClaims) hasRequiredClaims() bool {
	return c.RegisteredClaims.Subject != "" &&
		c.Name != "" &&
		c.Email != "" &&
		c.RegisteredClaims.ExpiresAt != nil &&
		c.RegisteredClaims.IssuedAt != nil
}

// MarshalJSON flattens the structured claims and the Extra map into a single
// payload object. Timestamps are emitted as whole seconds; structured claims
// win over Extra entries with the same name.
func (c TokenClaims) MarshalJSON() ([]byte, error) {
	payload := make(map[string]any, len(c.Extra)+7)

	for k, v := range c.Extra {
		payload[k] = v
	}

	payload[claimSubject] = c.RegisteredClaims.Subject
	payload[claimName] = c.Name
	payload[claimEmail] = c.Email

	if c.RegisteredClaims.IssuedAt != nil {
		payload[claimIssued] = c.RegisteredClaims.IssuedAt.Unix()
	}
	if c.RegisteredClaims.ExpiresAt != nil {
		payload[claimExpires] = c.RegisteredClaims.ExpiresAt.Unix()
	}
	if c.RegisteredClaims.ID != "" {
		payload[claimTokenID] = c.RegisteredClaims.ID
	}
	if c.RegisteredClaims.Issuer != "" {
		payload[claimIssuer] = c.RegisteredClaims.Issuer
	}

	return json.Marshal(payload)
}

// UnmarshalJSON is the inverse of MarshalJSON: known claim names populate the
// structured fields, everything else lands in Extra.
func (c *TokenClaims) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	for key, value := range raw {
		switch key {
		case claimSubject:
			if err := json.Unmarshal(value, &c.RegisteredClaims.Subject); err != nil {
				return err
			}
		case claimName:
			if err := json.Unmarshal(value, &c.Name); err != nil {
				return err
			}
		case claimEmail:
			if err := json.Unmarshal(value, &c.Email); err != nil {
				return err
			}
		case claimIssued:
			ts, err := unmarshalUnixSeconds(value)
			if err != nil {
				return err
			}
			c.RegisteredClaims.IssuedAt = ts
		case claimExpires:
			ts, err := unmarshalUnixSeconds(value)
			if err != nil {
				return err
			}
			c.RegisteredClaims.ExpiresAt = ts
		case claimTokenID:
			if err := json.Unmarshal(value, &c.RegisteredClaims.ID); err != nil {
				return err
			}
		case claimIssuer:
			if err := json.Unmarshal(value, &c.RegisteredClaims.Issuer); err != nil {
				return err
			}
		default:
			var v any
			if err := json.Unmarshal(value, &v); err != nil {
				return err
			}
			if c.Extra == nil {
				c.Extra = make(map[string]any)
			}
			c.Extra[key] = v
		}
	}

	return nil
}

func unmarshalUnixSeconds(data []byte) (*jwt.NumericDate, error) {
	var seconds float64
	if err := json.Unmarshal(data, &seconds); err != nil {
		return nil, err
	}
	return jwt.NewNumericDate(time.Unix(int64(seconds), 0)), nil
}
