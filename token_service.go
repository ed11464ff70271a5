package auth

import (
	"time"

	"github.com/goliatone/go-errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	signingKey    []byte
	signingMethod string
	issuer        string
	accessTTL     time.Duration
	refreshTTL    time.Duration
	logger        Logger
}

// NewTokenService creates a new TokenService instance. A missing signing key
// is a configuration error surfaced here, at startup, never at call time.
func NewTokenService(cfg Config, logger Logger) (*TokenServiceImpl, error) {
	if cfg.GetSigningKey() == "" {
		return nil, ErrMissingSigningKey
	}
	if logger == nil {
		logger = defLogger{}
	}

	method := cfg.GetSigningMethod()
	if method == "" {
		method = "HS256"
	}

	return &TokenServiceImpl{
		signingKey:    []byte(cfg.GetSigningKey()),
		signingMethod: method,
		issuer:        cfg.GetIssuer(),
		accessTTL:     time.Duration(cfg.GetAccessTokenMinutes()) * time.Minute,
		refreshTTL:    time.Duration(cfg.GetRefreshTokenDays()) * 24 * time.Hour,
		logger:        logger,
	}, nil
}

// Lifetime returns the configured lifetime for a token type.
func (ts *TokenServiceImpl) Lifetime(tokenType TokenType) time.Duration {
	if tokenType == TokenTypeRefresh {
		return ts.refreshTTL
	}
	return ts.accessTTL
}

// Generate creates a signed token of the given type for an identity.
func (ts *TokenServiceImpl) Generate(tokenType TokenType, identity Identity) (string, error) {
	if identity == nil {
		return "", errors.New("identity must not be nil", errors.CategoryInternal)
	}
	return ts.SignClaims(tokenType, NewTokenClaims(identity, nil))
}

// SignClaims signs a claim set of the given type using the configured key.
// The token type is written into the JWT header. Unset issuance/expiry
// timestamps are stamped here so that exp = iat + lifetime(type), in whole
// seconds.
func (ts *TokenServiceImpl) SignClaims(tokenType TokenType, claims *TokenClaims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}
	if !tokenType.Valid() {
		return "", errors.New("unknown token type", errors.CategoryBadInput).
			WithMetadata(map[string]any{"type": tokenType.String()})
	}

	if claims.RegisteredClaims.IssuedAt == nil {
		now := time.Now().UTC().Truncate(time.Second)
		claims.RegisteredClaims.IssuedAt = jwt.NewNumericDate(now)
		claims.RegisteredClaims.ExpiresAt = jwt.NewNumericDate(now.Add(ts.Lifetime(tokenType)))
	}

	if claims.RegisteredClaims.Issuer == "" {
		claims.RegisteredClaims.Issuer = ts.issuer
	}

	ensureTokenID(&claims.RegisteredClaims)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["typ"] = tokenType.String()

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Validate parses a token string and returns its claims, or ErrInvalidToken.
//
// The header type is compared to the expected type before the signature is
// checked, so a refresh token presented where an access token is expected is
// rejected without revealing whether its signature would have validated.
// Every failure collapses to the same error; the reasons only reach the
// logger.
func (ts *TokenServiceImpl) Validate(raw string, tokenType TokenType) (*TokenClaims, error) {
	if raw == "" || !tokenType.Valid() {
		return nil, ErrInvalidToken
	}

	headerType, err := unverifiedTokenType(raw)
	if err != nil {
		ts.logger.Debug("token validate could not read header", "error", err)
		return nil, ErrInvalidToken
	}
	if headerType != tokenType {
		ts.logger.Debug("token validate type mismatch", "want", tokenType, "got", headerType)
		return nil, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(raw, &TokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method", errors.CategoryAuth).
				WithMetadata(map[string]any{"alg": t.Header["alg"]})
		}
		return ts.signingKey, nil
	}, jwt.WithExpirationRequired())

	if err != nil {
		ts.logger.Debug("token validate failed", "error", err)
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		ts.logger.Error("token validate could not decode claims")
		return nil, ErrInvalidToken
	}

	if !claims.hasRequiredClaims() {
		ts.logger.Debug("token validate missing required claims")
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// unverifiedTokenType reads the typ field from the token header without
// checking the signature.
func unverifiedTokenType(raw string) (TokenType, error) {
	token, _, err := jwt.NewParser().ParseUnverified(raw, &TokenClaims{})
	if err != nil {
		return "", err
	}

	typ, _ := token.Header["typ"].(string)
	return TokenType(typ), nil
}

func ensureTokenID(claims *jwt.RegisteredClaims) {
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}
}

// accessValidator adapts a TokenService to the TokenValidator interface the
// HTTP middleware consumes: it always expects access tokens.
type accessValidator struct {
	tokens TokenService
}

// NewAccessTokenValidator returns a TokenValidator that accepts only access
// tokens signed by the given service.
func NewAccessTokenValidator(tokens TokenService) TokenValidator {
	return accessValidator{tokens: tokens}
}

func (v accessValidator) Validate(raw string) (*TokenClaims, error) {
	return v.tokens.Validate(raw, TokenTypeAccess)
}
