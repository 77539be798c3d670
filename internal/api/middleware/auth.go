package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/shopverse/storefront/internal/core/ports"
)

// claimsKey is the echo context key the verified claims are stored under.
const claimsKey = "auth_claims"

// Auth extracts the bearer token, verifies it, and injects the claims into
// the request context. Missing, malformed, or invalid tokens yield 401.
func Auth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := verifier.Verify(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

// ClaimsFrom returns the claims injected by Auth, or nil when the request
// passed through no auth middleware.
func ClaimsFrom(c echo.Context) *ports.TokenClaims {
	claims, _ := c.Get(claimsKey).(*ports.TokenClaims)
	return claims
}

// SetClaims injects claims directly. Intended for tests.
func SetClaims(c echo.Context, claims *ports.TokenClaims) {
	c.Set(claimsKey, claims)
}
