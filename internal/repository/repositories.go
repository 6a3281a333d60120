package repository

import (
	"github.com/pr-poehali-dev/cloud-test-site/internal/server"
)

// Repositories is a container for all repository instances, so router
// and service wiring pass one object around instead of many.
type Repositories struct {
	Entries *EntryRepository
}

// NewRepositories constructs the repository container.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Entries: NewEntryRepository(s),
	}
}
