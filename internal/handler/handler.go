// Package handler is the first layer after the router.
//
// It adapts transport concerns to the core: the function handler
// translates an incoming HTTP request into the invocation envelope,
// runs it through the dispatcher, and writes the envelope response
// back verbatim. It also serves system endpoints (health).
package handler

import (
	"github.com/pr-poehali-dev/cloud-test-site/internal/server"
)

// Handler is the base handler type that holds shared application
// dependencies. Concrete handlers embed it so they can access shared
// resources via *server.Server (config, logger, db).
type Handler struct {
	server *server.Server
}

// NewHandler constructs a base Handler.
func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}
