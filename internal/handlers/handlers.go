package handlers

import (
	"errors"
	"net/http"

	"orgadmin/internal/tenancy"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// serviceError maps the tenancy sentinels onto the HTTP contract. Unmapped
// errors become opaque 500s so internals never leak.
func serviceError(err error, fallback string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, tenancy.ErrTenantRequired):
		return echo.NewHTTPError(http.StatusBadRequest, tenancy.ErrTenantRequired.Error())
	case errors.Is(err, tenancy.ErrTenantAccessDenied):
		return echo.NewHTTPError(http.StatusForbidden, tenancy.ErrTenantAccessDenied.Error())
	case errors.Is(err, tenancy.ErrSlugConflict):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, map[string]any{
			"errors": map[string][]string{"slug": {tenancy.ErrSlugConflict.Error()}},
		})
	case errors.Is(err, tenancy.ErrMembershipExists):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, tenancy.ErrMembershipExists.Error())
	case errors.Is(err, tenancy.ErrMembershipNotFound):
		return echo.NewHTTPError(http.StatusNotFound, tenancy.ErrMembershipNotFound.Error())
	case errors.Is(err, tenancy.ErrDependentsExist):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, tenancy.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Not found")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, fallback)
	}
}

func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid id format")
	}
	return id, nil
}

type listParams struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

func bindListParams(c echo.Context) listParams {
	var p listParams
	_ = c.Bind(&p)
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
