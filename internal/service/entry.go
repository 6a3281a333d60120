// Package service contains the business logic.
//
// It sits between the handler and repository layers: it receives
// validated data from the handler, performs business operations, and
// calls repository methods to interact with the data.
package service

import (
	"context"

	"github.com/pr-poehali-dev/cloud-test-site/internal/domain"
	"github.com/pr-poehali-dev/cloud-test-site/internal/repository"
	"github.com/pr-poehali-dev/cloud-test-site/internal/server"
)

// EntryService implements the demo-entry operations over the
// repository. Validation happens before this layer; the service's job
// is the lifecycle itself (list, create, delete).
type EntryService struct {
	server *server.Server
	repo   *repository.EntryRepository
}

// NewEntryService constructs the service.
func NewEntryService(s *server.Server, repo *repository.EntryRepository) *EntryService {
	return &EntryService{
		server: s,
		repo:   repo,
	}
}

// List returns all entries ordered by creation time, newest first.
func (s *EntryService) List(ctx context.Context) ([]domain.DemoEntry, error) {
	return s.repo.List(ctx)
}

// Create persists a new entry; the store assigns id and created_at.
func (s *EntryService) Create(ctx context.Context, title string, description *string) (domain.DemoEntry, error) {
	return s.repo.Create(ctx, title, description)
}

// Delete removes an entry by id. A missing row is a no-op.
func (s *EntryService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
