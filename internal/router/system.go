package router

import (
	"github.com/cntpdlab/leadrelay/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers endpoints that are not part of the
// intake flow.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	// Service health endpoint (used by uptime monitors / load balancers).
	r.GET("/status", h.Health.CheckHealth)
}
