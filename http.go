package auth

import (
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/ushort/go-auth/middleware/jwtware"
)

// Cookie names used for browser based sessions. API clients can ignore the
// cookies and send the access token in the Authorization header instead.
const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

// RouteAuthenticator wires the Authenticator into go-router HTTP handlers:
// cookie management for login/refresh/logout plus the protected-route
// middleware.
type RouteAuthenticator struct {
	auth             Authenticator
	cfg              Config
	accessCookieTTL  time.Duration
	refreshCookieTTL time.Duration
	Logger           Logger
	AuthErrorHandler func(c router.Context, err error) error
	ErrorHandler     func(c router.Context, err error) error
}

func NewHTTPAuthenticator(auther Authenticator, cfg Config) (*RouteAuthenticator, error) {
	accessCookieTTL := time.Hour
	if cfg.GetAccessTokenMinutes() > 0 {
		accessCookieTTL = time.Duration(cfg.GetAccessTokenMinutes()) * time.Minute
	}

	refreshCookieTTL := 30 * 24 * time.Hour
	if cfg.GetRefreshTokenDays() > 0 {
		refreshCookieTTL = time.Duration(cfg.GetRefreshTokenDays()) * 24 * time.Hour
	}

	a := &RouteAuthenticator{
		cfg:              cfg,
		auth:             auther,
		Logger:           defLogger{},
		accessCookieTTL:  accessCookieTTL,
		refreshCookieTTL: refreshCookieTTL,
	}

	a.ErrorHandler = a.defaultErrHandler
	a.AuthErrorHandler = a.defaultAuthErrHandler

	return a, nil
}

func (a RouteAuthenticator) GetAccessCookieDuration() time.Duration {
	return a.accessCookieTTL
}

func (a RouteAuthenticator) GetRefreshCookieDuration() time.Duration {
	return a.refreshCookieTTL
}

// ProtectedRoute returns a middleware that rejects requests without a valid
// access token. Validated claims end up in locals under the configured
// context key.
func (a *RouteAuthenticator) ProtectedRoute(cfg Config, errorHandler func(router.Context, error) error) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		return jwtware.New(jwtware.Config{
			ErrorHandler: errorHandler,
			TokenValidator: jwtware.TokenValidatorFunc(func(raw string) (jwtware.AuthClaims, error) {
				return a.auth.TokenService().Validate(raw, TokenTypeAccess)
			}),
			AuthScheme:  cfg.GetAuthScheme(),
			ContextKey:  cfg.GetContextKey(),
			TokenLookup: cfg.GetTokenLookup(),
		})(hf)
	}
}

// Login authenticates the payload credentials and, on success, sets the
// access and refresh token cookies and returns the pair.
func (a *RouteAuthenticator) Login(ctx router.Context, payload LoginPayload) (*TokenPair, error) {
	pair, err := a.auth.Login(ctx.Context(), payload.GetIdentifier(), payload.GetPassword())
	if err != nil {
		a.Logger.Error("Login error: %s", err)
		return nil, err
	}

	a.setTokenCookies(ctx, pair)
	return pair, nil
}

// Refresh exchanges a refresh token for a fresh pair of cookies. An empty
// rawToken falls back to the refresh token cookie.
func (a *RouteAuthenticator) Refresh(ctx router.Context, rawToken string) (*TokenPair, error) {
	if rawToken == "" {
		rawToken = ctx.Cookies(RefreshTokenCookie)
	}

	pair, err := a.auth.Refresh(ctx.Context(), rawToken)
	if err != nil {
		a.Logger.Error("Refresh error: %s", err)
		return nil, err
	}

	a.setTokenCookies(ctx, pair)
	return pair, nil
}

func (a *RouteAuthenticator) Logout(ctx router.Context) {
	a.cookieDel(ctx, AccessTokenCookie)
	a.cookieDel(ctx, RefreshTokenCookie)
}

// MakeClientRouteAuthErrorHandler builds the jwtware error handler. With
// optional set, failed authentication lets the request proceed anonymously.
func (a *RouteAuthenticator) MakeClientRouteAuthErrorHandler(optional bool) func(router.Context, error) error {
	return func(ctx router.Context, err error) error {
		var richErr *errors.Error

		if IsTokenExpiredError(err) {
			richErr = ErrTokenExpired
		} else if IsMalformedError(err) {
			richErr = ErrTokenMalformed
		} else {
			richErr = errors.Wrap(err, errors.CategoryAuth, "Invalid authentication token").
				WithCode(errors.CodeUnauthorized)
		}

		if optional {
			a.Logger.Info("Optional auth failed, proceeding: %s", richErr.Message)
			return ctx.Next()
		}

		return a.ErrorHandler(ctx, richErr)
	}
}

func (a *RouteAuthenticator) setTokenCookies(c router.Context, pair *TokenPair) {
	a.setCookieToken(c, AccessTokenCookie, pair.Access, a.accessCookieTTL)
	a.setCookieToken(c, RefreshTokenCookie, pair.Refresh, a.refreshCookieTTL)
}

func (a *RouteAuthenticator) setCookieToken(c router.Context, name, val string, duration time.Duration) {
	c.Cookie(&router.Cookie{
		Name:     name,
		Value:    val,
		Expires:  time.Now().Add(duration),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func (a *RouteAuthenticator) cookieDel(c router.Context, name string) {
	c.Cookie(&router.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func (a *RouteAuthenticator) defaultAuthErrHandler(c router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryAuth, "An unexpected authentication error").
			WithCode(errors.CodeUnauthorized)
	}

	a.Logger.Info(
		"Authentication error on %s: %s [%s]",
		c.OriginalURL(), richErr.Message, richErr.TextCode,
	)

	return c.JSON(richErr.Code, router.ViewContext{
		"message": richErr.Message,
		"status":  richErr.Code,
	})
}

func (a *RouteAuthenticator) defaultErrHandler(c router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	a.Logger.Info(
		"Middleware error handler: %s category=%s details=%s",
		richErr.Message, richErr.Category, print.MaybePrettyJSON(richErr.Metadata),
	)

	switch richErr.Category {
	case errors.CategoryAuth, errors.CategoryAuthz:
		return a.AuthErrorHandler(c, richErr)
	default:
		return c.JSON(richErr.Code, router.ViewContext{
			"message": richErr.Message,
			"status":  richErr.Code,
		})
	}
}
