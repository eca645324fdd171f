package handlers

import (
	"net/http"

	"orgadmin/internal/services"
	"orgadmin/internal/tenancy"

	"github.com/labstack/echo/v4"
)

type OrganizationHandlers struct {
	orgService services.OrganizationService
}

func NewOrganizationHandlers(orgService services.OrganizationService) *OrganizationHandlers {
	return &OrganizationHandlers{orgService: orgService}
}

func (h *OrganizationHandlers) List(c echo.Context) error {
	user, ok := tenancy.CurrentPrincipal(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	p := bindListParams(c)
	orgs, err := h.orgService.List(c.Request().Context(), user, p.Limit, p.Offset)
	if err != nil {
		return serviceError(err, "Failed to list organizations")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"organizations": orgs,
		"limit":         p.Limit,
		"offset":        p.Offset,
	})
}

func (h *OrganizationHandlers) Create(c echo.Context) error {
	user, ok := tenancy.CurrentPrincipal(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	var req services.CreateOrganizationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name is required")
	}
	org, err := h.orgService.Create(c.Request().Context(), user, &req)
	if err != nil {
		return serviceError(err, "Failed to create organization")
	}
	return c.JSON(http.StatusCreated, org)
}

func (h *OrganizationHandlers) Get(c echo.Context) error {
	user, ok := tenancy.CurrentPrincipal(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	org, err := h.orgService.GetByID(c.Request().Context(), user, id)
	if err != nil {
		return serviceError(err, "Failed to get organization")
	}
	return c.JSON(http.StatusOK, org)
}

func (h *OrganizationHandlers) Update(c echo.Context) error {
	user, ok := tenancy.CurrentPrincipal(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var req services.UpdateOrganizationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	org, err := h.orgService.Update(c.Request().Context(), user, id, &req)
	if err != nil {
		return serviceError(err, "Failed to update organization")
	}
	return c.JSON(http.StatusOK, org)
}

func (h *OrganizationHandlers) Delete(c echo.Context) error {
	user, ok := tenancy.CurrentPrincipal(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.orgService.Delete(c.Request().Context(), user, id); err != nil {
		return serviceError(err, "Failed to delete organization")
	}
	return c.NoContent(http.StatusNoContent)
}
