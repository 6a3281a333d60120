package router

import (
	"github.com/labstack/echo/v4"

	"github.com/pr-poehali-dev/cloud-test-site/internal/handler"
	"github.com/pr-poehali-dev/cloud-test-site/internal/middleware"
)

// registerSystemRoutes registers endpoints that are not part of the
// function contract. These get the configured CORS middleware; the
// function endpoint owns its CORS handling itself.
func registerSystemRoutes(r *echo.Echo, mws *middleware.Middlewares, h *handler.Handlers) {
	system := r.Group("", mws.Global.CORS())

	// Health status endpoint (used by orchestrators/monitors).
	system.GET("/status", h.Health.CheckHealth)
}
