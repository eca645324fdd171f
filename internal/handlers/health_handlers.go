package handlers

import (
	"net/http"
	"time"

	"orgadmin/internal/caching"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

type HealthHandlers struct {
	db    *pgxpool.Pool
	cache *caching.AccessCache
}

func NewHealthHandlers(db *pgxpool.Pool, cache *caching.AccessCache) *HealthHandlers {
	return &HealthHandlers{db: db, cache: cache}
}

// Liveness reports process health only.
func (h *HealthHandlers) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness checks the database and Redis before reporting ready.
func (h *HealthHandlers) Readiness(c echo.Context) error {
	ctx := c.Request().Context()
	services := map[string]string{}
	status := http.StatusOK

	if err := h.db.Ping(ctx); err != nil {
		services["database"] = "unhealthy"
		status = http.StatusServiceUnavailable
	} else {
		services["database"] = "healthy"
	}

	if err := h.cache.Ping(ctx); err != nil {
		services["redis"] = "unhealthy"
		status = http.StatusServiceUnavailable
	} else {
		services["redis"] = "healthy"
	}

	body := map[string]any{
		"status":    "ready",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"services":  services,
	}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	return c.JSON(status, body)
}
