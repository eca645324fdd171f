package handlers

import (
	"net/http"

	"orgadmin/internal/services"
	"orgadmin/internal/tenancy"

	"github.com/labstack/echo/v4"
)

type ProjectHandlers struct {
	projectService services.ProjectService
}

func NewProjectHandlers(projectService services.ProjectService) *ProjectHandlers {
	return &ProjectHandlers{projectService: projectService}
}

func (h *ProjectHandlers) List(c echo.Context) error {
	p := bindListParams(c)
	projects, err := h.projectService.List(c.Request().Context(), p.Limit, p.Offset)
	if err != nil {
		return serviceError(err, "Failed to list projects")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"projects": projects,
		"limit":    p.Limit,
		"offset":   p.Offset,
	})
}

func (h *ProjectHandlers) Create(c echo.Context) error {
	user, ok := tenancy.CurrentPrincipal(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	var req services.CreateProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	project, err := h.projectService.Create(c.Request().Context(), user, &req)
	if err != nil {
		return serviceError(err, "Failed to create project")
	}
	return c.JSON(http.StatusCreated, project)
}

func (h *ProjectHandlers) Get(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	project, err := h.projectService.GetByID(c.Request().Context(), id)
	if err != nil {
		return serviceError(err, "Failed to get project")
	}
	return c.JSON(http.StatusOK, project)
}

func (h *ProjectHandlers) Update(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var req services.UpdateProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	project, err := h.projectService.Update(c.Request().Context(), id, &req)
	if err != nil {
		return serviceError(err, "Failed to update project")
	}
	return c.JSON(http.StatusOK, project)
}

func (h *ProjectHandlers) Delete(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.projectService.Delete(c.Request().Context(), id); err != nil {
		return serviceError(err, "Failed to delete project")
	}
	return c.NoContent(http.StatusNoContent)
}
