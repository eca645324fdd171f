package handlers

import (
	"net/http"

	"orgadmin/internal/services"
	"orgadmin/internal/tenancy"

	"github.com/labstack/echo/v4"
)

type TenantHandlers struct {
	tenantService services.TenantService
}

func NewTenantHandlers(tenantService services.TenantService) *TenantHandlers {
	return &TenantHandlers{tenantService: tenantService}
}

func (h *TenantHandlers) List(c echo.Context) error {
	user, ok := tenancy.CurrentPrincipal(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	p := bindListParams(c)
	tenants, err := h.tenantService.List(c.Request().Context(), user, p.Limit, p.Offset)
	if err != nil {
		return serviceError(err, "Failed to list tenants")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"tenants": tenants,
		"limit":   p.Limit,
		"offset":  p.Offset,
	})
}

func (h *TenantHandlers) Create(c echo.Context) error {
	user, ok := tenancy.CurrentPrincipal(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	var req services.CreateTenantRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name is required")
	}
	tenant, err := h.tenantService.Create(c.Request().Context(), user, &req)
	if err != nil {
		return serviceError(err, "Failed to create tenant")
	}
	return c.JSON(http.StatusCreated, tenant)
}

func (h *TenantHandlers) Get(c echo.Context) error {
	user, ok := tenancy.CurrentPrincipal(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	tenant, err := h.tenantService.GetByID(c.Request().Context(), user, id)
	if err != nil {
		return serviceError(err, "Failed to get tenant")
	}
	return c.JSON(http.StatusOK, tenant)
}

func (h *TenantHandlers) Update(c echo.Context) error {
	user, ok := tenancy.CurrentPrincipal(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var req services.UpdateTenantRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	tenant, err := h.tenantService.Update(c.Request().Context(), user, id, &req)
	if err != nil {
		return serviceError(err, "Failed to update tenant")
	}
	return c.JSON(http.StatusOK, tenant)
}

func (h *TenantHandlers) Delete(c echo.Context) error {
	user, ok := tenancy.CurrentPrincipal(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.tenantService.Delete(c.Request().Context(), user, id); err != nil {
		return serviceError(err, "Failed to delete tenant")
	}
	return c.NoContent(http.StatusNoContent)
}
