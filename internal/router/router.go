// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers.
package router

import (
	"github.com/cntpdlab/leadrelay/internal/handler"
	"github.com/cntpdlab/leadrelay/internal/middleware"
	"github.com/cntpdlab/leadrelay/internal/server"
	"github.com/labstack/echo/v4"
)

// New builds the Echo instance: global middleware stack, the global
// error funnel, and all routes.
//
// Middleware order matters: recovery first, then request IDs so the
// context enhancer and tracing can pick them up, then the request
// logger which reads the enhanced logger.
func New(s *server.Server, h *handler.Handlers, m *middleware.Middlewares) *echo.Echo {
	r := echo.New()

	r.HideBanner = true
	r.HidePort = true

	r.HTTPErrorHandler = m.Global.GlobalErrorHandler

	r.Use(
		m.Global.Recover(),
		middleware.RequestID(),
		m.Tracing.NewRelicMiddleware(),
		m.ContextEnhancer.EnhanceContext(),
		m.Tracing.EnhanceTracing(),
		m.Global.RequestLogger(),
		m.Global.CORS(),
		m.Global.Secure(),
	)

	registerAPIRoutes(r, h)
	registerSystemRoutes(r, h)

	return r
}
