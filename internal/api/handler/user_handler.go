package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/board-system/board-api/internal/api/metrics"
	"github.com/board-system/board-api/internal/core/ports"
)

// UserHandler serves account administration and the caller's own profile.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// CreateForAdmin handles POST /admin/users.
//
// @Summary      Create a user with a role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      adminUserRequest  true  "Account details"
// @Success      201   {object}  ports.UserResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /admin/users [post]
func (h *UserHandler) CreateForAdmin(c echo.Context) error {
	var req adminUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.service.CreateUserForAdmin(c.Request().Context(), ports.UserForAdminRequest{
		Email:    req.Email,
		Nickname: req.Nickname,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	metrics.UsersCreatedTotal.WithLabelValues(user.Role).Inc()
	return c.JSON(http.StatusCreated, user)
}

// List handles GET /api/public/users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   ports.UserResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/public/users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.FindAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Profile handles GET /profile.
//
// @Summary      Current user profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.UserResponse
// @Failure      401  {object}  errorResponse
// @Router       /profile [get]
func (h *UserHandler) Profile(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	user, err := h.service.FindByEmail(c.Request().Context(), p.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile handles PUT /profile.
//
// @Summary      Update current user profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      profileRequest  true  "Fields to change"
// @Success      200   {object}  ports.UserResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /profile [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.service.UpdateProfile(c.Request().Context(), p.Email, ports.ProfileRequest{
		Nickname: req.Nickname,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
