package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/board-system/board-api/internal/api/metrics"
	"github.com/board-system/board-api/internal/core/domain"
	"github.com/board-system/board-api/internal/core/ports"
)

const (
	// PrincipalKey is the echo.Context key holding the *domain.Principal.
	PrincipalKey = "principal"

	// RememberMeCookie carries the long-lived remember-me token.
	RememberMeCookie = "remember-me"

	// AuthTokenHeader returns a fresh access token issued from a remember-me cookie.
	AuthTokenHeader = "X-Auth-Token"
)

// Authorization verifies the bearer token, falling back to the remember-me
// cookie, and injects the principal into context. Requests without
// credentials continue anonymously; the access rules decide what they reach.
//
// On the credential-handling paths given as skipInvalid (sign-in, logout) a
// bad or revoked bearer token is ignored instead of rejected.
func Authorization(auth ports.AuthService, skipInvalid ...string) echo.MiddlewareFunc {
	lenient := make(map[string]struct{}, len(skipInvalid))
	for _, p := range skipInvalid {
		lenient[p] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			_, tolerant := lenient[c.Request().URL.Path]

			if authHeader := c.Request().Header.Get(echo.HeaderAuthorization); authHeader != "" {
				token, ok := BearerToken(authHeader)
				if !ok {
					if tolerant {
						return next(c)
					}
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
				}
				principal, err := auth.Authenticate(ctx, token)
				if err != nil {
					if !errors.Is(err, domain.ErrUnauthorized) {
						return err
					}
					if tolerant {
						return next(c)
					}
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token").SetInternal(err)
				}
				c.Set(PrincipalKey, principal)
				return next(c)
			}

			if cookie, err := c.Cookie(RememberMeCookie); err == nil && cookie.Value != "" {
				principal, access, err := auth.AuthenticateRememberMe(ctx, cookie.Value)
				switch {
				case err == nil:
					metrics.RememberMeLoginsTotal.Inc()
					c.Set(PrincipalKey, principal)
					c.Response().Header().Set(AuthTokenHeader, access)
				case errors.Is(err, domain.ErrUnauthorized):
					// stale cookie: drop it and continue anonymously
					c.SetCookie(ExpiredRememberMeCookie())
				default:
					return err
				}
			}

			return next(c)
		}
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// PrincipalFrom returns the authenticated principal, or nil for anonymous requests.
func PrincipalFrom(c echo.Context) *domain.Principal {
	p, _ := c.Get(PrincipalKey).(*domain.Principal)
	return p
}

// ExpiredRememberMeCookie returns a cookie that removes the remember-me cookie.
func ExpiredRememberMeCookie() *http.Cookie {
	return &http.Cookie{
		Name:     RememberMeCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
