package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopverse/storefront/internal/core/domain"
)

// RBAC enforces role-based access control over routes already behind Auth.
// An unauthenticated request is 401; a wrong role is 403 — clients must be
// able to tell the two apart.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := ClaimsFrom(c)
			if claims == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}
			if _, ok := allowed[claims.Role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}
