package router

import (
	"net/http"

	"github.com/cntpdlab/leadrelay/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerAPIRoutes registers the lead intake endpoints.
//
// OPTIONS preflights on these paths are answered by the CORS
// middleware; no explicit route is needed.
func registerAPIRoutes(r *echo.Echo, h *handler.Handlers) {
	api := r.Group("/api")

	// Contact-form submission.
	api.POST("/lead", h.Lead.Submit)

	// Liveness only; performs no delivery.
	api.GET("/lead", h.Lead.Liveness)

	// Delivery diagnostic probe, optionally gated by ?key=.
	api.GET("/health-relay", handler.Handle(
		h.Probe.Handler,
		h.Probe.Check,
		http.StatusOK,
		func() *handler.ProbeRequest { return &handler.ProbeRequest{} },
	))
}
