package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/board-system/board-api/internal/api/middleware"
	"github.com/board-system/board-api/internal/core/domain"
)

// currentPrincipal returns the principal injected by the Authorization
// middleware. Handlers behind an authenticated rule always have one; the
// check guards against a route registered outside the access table.
func currentPrincipal(c echo.Context) (*domain.Principal, error) {
	p := middleware.PrincipalFrom(c)
	if p == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return p, nil
}
