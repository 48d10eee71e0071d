package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/board-system/board-api/internal/api/middleware"
)

const indexPage = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Board</title></head>
<body>
<h1>Board</h1>
<p><a href="/login">Sign in</a> or <a href="/sign-up">create an account</a>.</p>
</body>
</html>
`

// PublicHandler serves the landing page and the authority probe endpoints.
type PublicHandler struct{}

func NewPublicHandler() *PublicHandler {
	return &PublicHandler{}
}

// Index handles GET /index.html.
func (h *PublicHandler) Index(c echo.Context) error {
	return c.HTML(http.StatusOK, indexPage)
}

// Test1 handles GET /api/public/test1, reachable with the ACCESS1 authority.
//
// @Summary      ACCESS1 probe
// @Tags         public
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/public/test1 [get]
func (h *PublicHandler) Test1(c echo.Context) error {
	return h.greet(c, "API Test 1")
}

// Test2 handles GET /api/public/test2, reachable with the ACCESS2 authority.
//
// @Summary      ACCESS2 probe
// @Tags         public
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/public/test2 [get]
func (h *PublicHandler) Test2(c echo.Context) error {
	return h.greet(c, "API Test 2")
}

// ManagerIndex handles GET /manager/index.
//
// @Summary      Manager landing
// @Tags         public
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Router       /manager/index [get]
func (h *PublicHandler) ManagerIndex(c echo.Context) error {
	return h.greet(c, "Manager index")
}

func (h *PublicHandler) greet(c echo.Context, msg string) error {
	resp := messageResponse{Message: msg}
	if p := middleware.PrincipalFrom(c); p != nil {
		resp.User = p.Email
	}
	return c.JSON(http.StatusOK, resp)
}
