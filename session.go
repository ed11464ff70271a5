package auth

import (
	"fmt"
	"strconv"
	"time"
)

var _ Session = &SessionObject{}

// SessionObject is the request-scoped view of a validated token.
type SessionObject struct {
	UserID         string         `json:"user_id,omitempty"`
	Name           string         `json:"name,omitempty"`
	Email          string         `json:"email,omitempty"`
	Issuer         string         `json:"issuer,omitempty"`
	IssuedAt       *time.Time     `json:"issued_at,omitempty"`
	ExpirationDate *time.Time     `json:"expiration_date,omitempty"`
	Data           map[string]any `json:"data,omitempty"`
}

func (s *SessionObject) GetUserID() string {
	return s.UserID
}

// GetUserInt64 parses the subject back into the numeric principal ID.
func (s *SessionObject) GetUserInt64() (int64, error) {
	return strconv.ParseInt(s.UserID, 10, 64)
}

func (s *SessionObject) GetName() string {
	return s.Name
}

func (s *SessionObject) GetEmail() string {
	return s.Email
}

func (s *SessionObject) GetIssuer() string {
	return s.Issuer
}

func (s *SessionObject) GetIssuedAt() *time.Time {
	return s.IssuedAt
}

func (s *SessionObject) GetData() map[string]any {
	return s.Data
}

func (s SessionObject) String() string {
	issuedAt := "<nil>"
	if s.IssuedAt != nil {
		issuedAt = s.IssuedAt.Format(time.RFC1123)
	}
	return fmt.Sprintf(
		"user=%s email=%s iss=%s iat=%s",
		s.UserID,
		s.Email,
		s.Issuer,
		issuedAt,
	)
}

// SessionFromClaims creates a SessionObject from a validated claim set.
func SessionFromClaims(claims *TokenClaims) (*SessionObject, error) {
	if claims == nil {
		return nil, ErrInvalidToken
	}

	var data map[string]any
	if len(claims.Extra) > 0 {
		data = make(map[string]any, len(claims.Extra))
		for k, v := range claims.Extra {
			data[k] = v
		}
	}

	issuedAt := claims.IssuedAt()
	expiresAt := claims.Expires()

	return &SessionObject{
		UserID:         claims.Subject(),
		Name:           claims.Name,
		Email:          claims.Email,
		Issuer:         claims.RegisteredClaims.Issuer,
		IssuedAt:       &issuedAt,
		ExpirationDate: &expiresAt,
		Data:           data,
	}, nil
}
