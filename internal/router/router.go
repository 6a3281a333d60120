// Package router initializes the HTTP router (using echo).
//
// It registers the middlewares and defines the route groups, mapping
// paths to their corresponding handlers.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/pr-poehali-dev/cloud-test-site/internal/handler"
	"github.com/pr-poehali-dev/cloud-test-site/internal/middleware"
	"github.com/pr-poehali-dev/cloud-test-site/internal/server"
)

// New assembles the echo engine: global middleware in order, the
// global error funnel, system routes, and the function route.
//
// Middleware order matters: recovery first, then request ID so every
// later stage can correlate, tracing before the context enhancer so
// the request logger sees trace ids.
func New(s *server.Server, mws *middleware.Middlewares, h *handler.Handlers) *echo.Echo {
	r := echo.New()
	r.HideBanner = true
	r.HidePort = true

	r.HTTPErrorHandler = mws.Global.GlobalErrorHandler

	r.Use(mws.Global.Recover())
	r.Use(middleware.RequestID())
	r.Use(mws.Tracing.NewRelicMiddleware())
	r.Use(mws.ContextEnhancer.EnhanceContext())
	r.Use(mws.Tracing.EnhanceTracing())
	r.Use(mws.Global.RequestLogger())
	r.Use(mws.Global.Secure())

	registerSystemRoutes(r, mws, h)
	registerFunctionRoutes(r, h)

	return r
}

// registerFunctionRoutes mounts the cloud-function dispatcher.
//
// The route accepts any method: method dispatch (including OPTIONS
// preflight and the 405 fallback) is the dispatcher's own contract, so
// no echo-level CORS or method filtering applies here.
func registerFunctionRoutes(r *echo.Echo, h *handler.Handlers) {
	r.Any("/demo-api", h.Function.Invoke)
}
