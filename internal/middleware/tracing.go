package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrecho-v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/pr-poehali-dev/cloud-test-site/internal/server"
)

// TracingMiddleware owns the New Relic echo middleware.
//
// nrApp is nil when APM is disabled; every method then degrades into a
// no-op so call sites stay unconditional.
type TracingMiddleware struct {
	server *server.Server
	nrApp  *newrelic.Application
}

// NewTracingMiddleware constructs TracingMiddleware.
func NewTracingMiddleware(s *server.Server, nrApp *newrelic.Application) *TracingMiddleware {
	return &TracingMiddleware{
		server: s,
		nrApp:  nrApp,
	}
}

// NewRelicMiddleware returns the nrecho middleware that starts a
// transaction per request and stores it in the request context, making
// newrelic.FromContext work downstream. No-op without an application.
func (tm *TracingMiddleware) NewRelicMiddleware() echo.MiddlewareFunc {
	if tm.nrApp == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}
	return nrecho.Middleware(tm.nrApp)
}

// EnhanceTracing attaches request correlation attributes to the current
// transaction.
func (tm *TracingMiddleware) EnhanceTracing() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			txn := newrelic.FromContext(c.Request().Context())
			if txn != nil {
				if requestID := GetRequestID(c); requestID != "" {
					txn.AddAttribute("request.id", requestID)
				}
				txn.AddAttribute("http.route", c.Path())
			}

			err := next(c)
			if err != nil && txn != nil {
				txn.NoticeError(nrpkgerrors.Wrap(err))
			}
			return err
		}
	}
}
