package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"tasktracker/internal/db"
)

// HealthHandler reports process and database liveness.
type HealthHandler struct {
	db *gorm.DB
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(gormDB *gorm.DB) *HealthHandler {
	return &HealthHandler{db: gormDB}
}

// Healthz godoc
// @Summary Health check
// @Tags health
// @Produce plain
// @Success 200 {string} string "ok"
// @Failure 503 {string} string "database unavailable"
// @Router /healthz [get]
func (h *HealthHandler) Healthz(c echo.Context) error {
	if err := db.Ping(c.Request().Context(), h.db); err != nil {
		c.Logger().Warnf("health check: %v", err)
		return c.String(http.StatusServiceUnavailable, "database unavailable")
	}
	return c.String(http.StatusOK, "ok")
}
