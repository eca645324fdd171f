package handlers

import (
	"net/http"

	"orgadmin/internal/models"
	"orgadmin/internal/services"
	"orgadmin/internal/tenancy"

	"github.com/labstack/echo/v4"
)

type RoleHandlers struct {
	roleService services.RoleService
}

func NewRoleHandlers(roleService services.RoleService) *RoleHandlers {
	return &RoleHandlers{roleService: roleService}
}

func (h *RoleHandlers) ListByOrganization(c echo.Context) error {
	user, ok := tenancy.CurrentPrincipal(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	orgID, err := pathUUID(c, "orgId")
	if err != nil {
		return err
	}
	p := bindListParams(c)
	roles, err := h.roleService.ListByOrganization(c.Request().Context(), user, orgID, p.Limit, p.Offset)
	if err != nil {
		return serviceError(err, "Failed to list roles")
	}
	return c.JSON(http.StatusOK, map[string]any{"roles": roles})
}

func (h *RoleHandlers) Create(c echo.Context) error {
	user, ok := tenancy.CurrentPrincipal(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	var req services.CreateRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	role, err := h.roleService.Create(c.Request().Context(), user, &req)
	if err != nil {
		return serviceError(err, "Failed to create role")
	}
	return c.JSON(http.StatusCreated, role)
}

func (h *RoleHandlers) Get(c echo.Context) error {
	user, ok := tenancy.CurrentPrincipal(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	role, err := h.roleService.GetByID(c.Request().Context(), user, id)
	if err != nil {
		return serviceError(err, "Failed to get role")
	}
	return c.JSON(http.StatusOK, role)
}

func (h *RoleHandlers) Update(c echo.Context) error {
	user, ok := tenancy.CurrentPrincipal(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var req services.UpdateRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	role, err := h.roleService.Update(c.Request().Context(), user, id, &req)
	if err != nil {
		return serviceError(err, "Failed to update role")
	}
	return c.JSON(http.StatusOK, role)
}

func (h *RoleHandlers) Delete(c echo.Context) error {
	user, ok := tenancy.CurrentPrincipal(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.roleService.Delete(c.Request().Context(), user, id); err != nil {
		return serviceError(err, "Failed to delete role")
	}
	return c.NoContent(http.StatusNoContent)
}

// Permissions lists the catalog roles may draw from.
func (h *RoleHandlers) Permissions(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"permissions": models.AllPermissions()})
}
