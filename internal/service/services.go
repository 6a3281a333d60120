package service

import (
	"github.com/pr-poehali-dev/cloud-test-site/internal/repository"
	"github.com/pr-poehali-dev/cloud-test-site/internal/server"
)

// Services groups all business-layer services for wiring.
type Services struct {
	Entries *EntryService
}

// NewServices constructs the service container.
func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	return &Services{
		Entries: NewEntryService(s, repos.Entries),
	}, nil
}
