package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopverse/storefront/internal/api/middleware"
	"github.com/shopverse/storefront/internal/core/ports"
)

// ctxClaims extracts the auth claims injected by the Auth middleware and
// fast-fails before any service call: a missing or incomplete claim set
// means the middleware did not run or the token carried no usable identity.
func ctxClaims(c echo.Context) (*ports.TokenClaims, error) {
	claims := middleware.ClaimsFrom(c)
	if claims == nil || claims.UserID == "" || !claims.Role.Valid() {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}
