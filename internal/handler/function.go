package handler

import (
	"io"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/pr-poehali-dev/cloud-test-site/internal/function"
	"github.com/pr-poehali-dev/cloud-test-site/internal/middleware"
	"github.com/pr-poehali-dev/cloud-test-site/internal/server"
)

// FunctionHandler hosts the cloud-function dispatcher behind an HTTP
// route, invoking it the way the platform would: the HTTP request is
// flattened into the invocation envelope, and the envelope response is
// written back with its status, headers, and body untouched.
type FunctionHandler struct {
	Handler
	fn *function.Handler
}

// NewFunctionHandler constructs a FunctionHandler around the dispatcher.
func NewFunctionHandler(s *server.Server, fn *function.Handler) *FunctionHandler {
	return &FunctionHandler{
		Handler: NewHandler(s),
		fn:      fn,
	}
}

// Invoke executes one function invocation.
//
// The surrounding pipeline mirrors the shared handler plumbing: a
// request-scoped logger, invocation timing, and New Relic attributes
// when tracing is enabled. Errors never escape: every failure the
// dispatcher produces is already a well-formed envelope response.
func (h *FunctionHandler) Invoke(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "function_invoke").
		Logger()

	req, err := eventFromHTTP(c)
	if err != nil {
		logger.Error().Err(err).Msg("failed to read request body")
		if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
		}
		return err
	}

	logger.Info().Str("http_method", req.HTTPMethod).Msg("handling invocation")

	resp := h.fn.Handle(c.Request().Context(), req)

	duration := time.Since(start)

	if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
		txn.AddAttribute("function.status_code", resp.StatusCode)
		txn.AddAttribute("function.duration_ms", duration.Milliseconds())
	}

	logger.Info().
		Int("status", resp.StatusCode).
		Dur("duration", duration).
		Msg("invocation completed")

	return writeEnvelope(c, resp)
}

// eventFromHTTP flattens the HTTP request into the invocation input:
// method, raw body string, and single-valued query parameters.
func eventFromHTTP(c echo.Context) (function.Request, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return function.Request{}, err
	}

	params := map[string]string{}
	for key, values := range c.QueryParams() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	return function.Request{
		HTTPMethod:            c.Request().Method,
		Body:                  string(body),
		QueryStringParameters: params,
	}, nil
}

// writeEnvelope writes the envelope response verbatim. Headers are set
// before the status line; the envelope owns Content-Type, so nothing is
// added beyond what the dispatcher produced.
func writeEnvelope(c echo.Context, resp function.Response) error {
	h := c.Response().Header()
	for key, value := range resp.Headers {
		h.Set(key, value)
	}

	c.Response().WriteHeader(resp.StatusCode)
	_, err := c.Response().Write([]byte(resp.Body))
	return err
}
