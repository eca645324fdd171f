package handlers

import (
	"net/http"

	"orgadmin/internal/services"
	"orgadmin/internal/tenancy"

	"github.com/labstack/echo/v4"
)

type ProductHandlers struct {
	productService services.ProductService
}

func NewProductHandlers(productService services.ProductService) *ProductHandlers {
	return &ProductHandlers{productService: productService}
}

func (h *ProductHandlers) List(c echo.Context) error {
	user, ok := tenancy.CurrentPrincipal(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	p := bindListParams(c)
	products, err := h.productService.List(c.Request().Context(), user, p.Limit, p.Offset)
	if err != nil {
		return serviceError(err, "Failed to list products")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"products": products,
		"limit":    p.Limit,
		"offset":   p.Offset,
	})
}

func (h *ProductHandlers) Create(c echo.Context) error {
	user, ok := tenancy.CurrentPrincipal(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	var req services.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	product, err := h.productService.Create(c.Request().Context(), user, &req)
	if err != nil {
		return serviceError(err, "Failed to create product")
	}
	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHandlers) Get(c echo.Context) error {
	user, ok := tenancy.CurrentPrincipal(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	product, err := h.productService.GetByID(c.Request().Context(), user, id)
	if err != nil {
		return serviceError(err, "Failed to get product")
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandlers) Update(c echo.Context) error {
	user, ok := tenancy.CurrentPrincipal(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var req services.UpdateProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	product, err := h.productService.Update(c.Request().Context(), user, id, &req)
	if err != nil {
		return serviceError(err, "Failed to update product")
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandlers) Delete(c echo.Context) error {
	user, ok := tenancy.CurrentPrincipal(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.productService.Delete(c.Request().Context(), user, id); err != nil {
		return serviceError(err, "Failed to delete product")
	}
	return c.NoContent(http.StatusNoContent)
}
