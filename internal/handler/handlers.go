package handler

import (
	"github.com/pr-poehali-dev/cloud-test-site/internal/function"
	"github.com/pr-poehali-dev/cloud-test-site/internal/server"
	"github.com/pr-poehali-dev/cloud-test-site/internal/service"
)

// Handlers is a container that groups all HTTP handlers, keeping
// router setup to a single object.
type Handlers struct {
	Health   *HealthHandler   // liveness/readiness endpoint
	Function *FunctionHandler // the demo-entries invocation endpoint
}

// NewHandlers constructs the handler container, building the function
// dispatcher over the entry service.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	fn := function.NewHandler(services.Entries, *s.Logger)

	return &Handlers{
		Health:   NewHealthHandler(s),
		Function: NewFunctionHandler(s, fn),
	}
}
