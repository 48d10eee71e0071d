package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/board-system/board-api/internal/core/ports"
)

// RoleHandler serves role administration under /admin/roles.
type RoleHandler struct {
	service ports.RoleService
}

func NewRoleHandler(service ports.RoleService) *RoleHandler {
	return &RoleHandler{service: service}
}

// List handles GET /admin/roles.
//
// @Summary      List roles
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   ports.RoleResponse
// @Router       /admin/roles [get]
func (h *RoleHandler) List(c echo.Context) error {
	roles, err := h.service.FindAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, roles)
}

// Get handles GET /admin/roles/:id.
//
// @Summary      Get a role
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Role id"
// @Success      200  {object}  ports.RoleResponse
// @Failure      404  {object}  errorResponse
// @Router       /admin/roles/{id} [get]
func (h *RoleHandler) Get(c echo.Context) error {
	id, err := roleID(c)
	if err != nil {
		return err
	}
	role, err := h.service.FindByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, role)
}

// Create handles POST /admin/roles.
//
// @Summary      Create a role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      roleRequest  true  "Role"
// @Success      201   {object}  ports.RoleResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /admin/roles [post]
func (h *RoleHandler) Create(c echo.Context) error {
	var req roleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	role, err := h.service.Create(c.Request().Context(), ports.RoleRequest{Name: req.Name, Permissions: req.Permissions})
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderLocation, "/admin/roles/"+strconv.FormatInt(role.ID, 10))
	return c.JSON(http.StatusCreated, role)
}

// Update handles PUT /admin/roles/:id.
//
// @Summary      Update a role
// @Tags         roles
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  int          true  "Role id"
// @Param        body  body  roleRequest  true  "Role"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /admin/roles/{id} [put]
func (h *RoleHandler) Update(c echo.Context) error {
	id, err := roleID(c)
	if err != nil {
		return err
	}
	var req roleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if err := h.service.Update(c.Request().Context(), id, ports.RoleRequest{Name: req.Name, Permissions: req.Permissions}); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /admin/roles/:id.
//
// @Summary      Delete a role
// @Tags         roles
// @Security     BearerAuth
// @Param        id   path  int  true  "Role id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /admin/roles/{id} [delete]
func (h *RoleHandler) Delete(c echo.Context) error {
	id, err := roleID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func roleID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid role id")
	}
	return id, nil
}
