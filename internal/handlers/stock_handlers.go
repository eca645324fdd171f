package handlers

import (
	"net/http"
	"strings"

	"orgadmin/internal/services"
	"orgadmin/internal/tenancy"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type StockHandlers struct {
	stockService  services.StockService
	reportService services.ReportService
}

func NewStockHandlers(stockService services.StockService, reportService services.ReportService) *StockHandlers {
	return &StockHandlers{stockService: stockService, reportService: reportService}
}

func (h *StockHandlers) List(c echo.Context) error {
	p := bindListParams(c)
	stocks, err := h.stockService.List(c.Request().Context(), p.Limit, p.Offset)
	if err != nil {
		return serviceError(err, "Failed to list stocks")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"stocks": stocks,
		"limit":  p.Limit,
		"offset": p.Offset,
	})
}

func (h *StockHandlers) Upsert(c echo.Context) error {
	user, ok := tenancy.CurrentPrincipal(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	var req services.UpsertStockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	stock, err := h.stockService.Upsert(c.Request().Context(), user, &req)
	if err != nil {
		return serviceError(err, "Failed to save stock")
	}
	return c.JSON(http.StatusOK, stock)
}

// parseTenantIDs reads the optional comma-separated tenant_ids query
// parameter. The ids only filter the aggregate; they never select the
// current tenant, which comes exclusively from the X-Tenant-Id header.
func parseTenantIDs(c echo.Context) ([]uuid.UUID, error) {
	raw := c.QueryParam("tenant_ids")
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uuid.UUID, 0, len(parts))
	for _, part := range parts {
		id, err := uuid.Parse(strings.TrimSpace(part))
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid tenant_ids parameter")
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Consolidated aggregates stock per product across the caller's authorized
// tenants and echoes back the tenant set actually used.
func (h *StockHandlers) Consolidated(c echo.Context) error {
	user, ok := tenancy.CurrentPrincipal(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	tenantIDs, err := parseTenantIDs(c)
	if err != nil {
		return err
	}
	result, err := h.stockService.Consolidated(c.Request().Context(), user, tenantIDs)
	if err != nil {
		return serviceError(err, "Failed to consolidate stocks")
	}
	return c.JSON(http.StatusOK, result)
}

// ConsolidatedExport writes the consolidation as CSV to object storage and
// returns a presigned download URL.
func (h *StockHandlers) ConsolidatedExport(c echo.Context) error {
	user, ok := tenancy.CurrentPrincipal(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	tenantIDs, err := parseTenantIDs(c)
	if err != nil {
		return err
	}
	url, err := h.reportService.ExportConsolidatedCSV(c.Request().Context(), user, tenantIDs)
	if err != nil {
		return serviceError(err, "Failed to export consolidated report")
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}
