package handlers

import (
	"net/http"

	"orgadmin/internal/services"
	"orgadmin/internal/tenancy"

	"github.com/labstack/echo/v4"
)

type UserHandlers struct {
	userService       services.UserService
	membershipService services.MembershipService
}

func NewUserHandlers(userService services.UserService, membershipService services.MembershipService) *UserHandlers {
	return &UserHandlers{userService: userService, membershipService: membershipService}
}

func (h *UserHandlers) List(c echo.Context) error {
	actor, ok := tenancy.CurrentPrincipal(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	p := bindListParams(c)
	users, err := h.userService.List(c.Request().Context(), actor, p.Limit, p.Offset)
	if err != nil {
		return serviceError(err, "Failed to list users")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"users":  users,
		"limit":  p.Limit,
		"offset": p.Offset,
	})
}

func (h *UserHandlers) Create(c echo.Context) error {
	actor, ok := tenancy.CurrentPrincipal(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	var req services.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	user, err := h.userService.Create(c.Request().Context(), actor, &req)
	if err != nil {
		return serviceError(err, "Failed to create user")
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *UserHandlers) Get(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.userService.GetByID(c.Request().Context(), id)
	if err != nil {
		return serviceError(err, "Failed to get user")
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandlers) Update(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var req services.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	user, err := h.userService.Update(c.Request().Context(), id, &req)
	if err != nil {
		return serviceError(err, "Failed to update user")
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandlers) Delete(c echo.Context) error {
	actor, ok := tenancy.CurrentPrincipal(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.userService.Delete(c.Request().Context(), actor, id); err != nil {
		return serviceError(err, "Failed to delete user")
	}
	return c.NoContent(http.StatusNoContent)
}

// ListTenants returns the user's tenants with the role held in each.
func (h *UserHandlers) ListTenants(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	tenants, err := h.userService.ListTenants(c.Request().Context(), id)
	if err != nil {
		return serviceError(err, "Failed to list user tenants")
	}
	return c.JSON(http.StatusOK, map[string]any{"tenants": tenants})
}

func (h *UserHandlers) AttachTenant(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var req services.AttachMembershipRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	m, err := h.membershipService.Attach(c.Request().Context(), id, &req)
	if err != nil {
		return serviceError(err, "Failed to attach tenant")
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *UserHandlers) UpdateTenant(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	tenantID, err := pathUUID(c, "tenantId")
	if err != nil {
		return err
	}
	var req services.UpdateMembershipRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	m, err := h.membershipService.Update(c.Request().Context(), id, tenantID, &req)
	if err != nil {
		return serviceError(err, "Failed to update membership")
	}
	return c.JSON(http.StatusOK, m)
}

func (h *UserHandlers) DetachTenant(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	tenantID, err := pathUUID(c, "tenantId")
	if err != nil {
		return err
	}
	if err := h.membershipService.Detach(c.Request().Context(), id, tenantID); err != nil {
		return serviceError(err, "Failed to detach tenant")
	}
	return c.NoContent(http.StatusNoContent)
}
