// Package repository handles all interactions with the database.
//
// It contains the raw SQL and methods to fetch, persist, or delete
// data, abstracting SQL logic away from the service layer.
package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pr-poehali-dev/cloud-test-site/internal/domain"
	"github.com/pr-poehali-dev/cloud-test-site/internal/server"
)

// EntryRepository provides persistence operations for demo entries.
//
// Every operation acquires a single pooled connection at entry and
// releases it on every exit path, success or failure, so one invocation
// never holds more than one connection and never leaks it. Each write
// is its own implicit transaction.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a repository over the application pool.
func NewEntryRepository(s *server.Server) *EntryRepository {
	return &EntryRepository{pool: s.DB.Pool}
}

// List returns all entries, most recently created first.
func (r *EntryRepository) List(ctx context.Context) ([]domain.DemoEntry, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquiring connection: %w", err)
	}
	defer conn.Release()

	const q = `
SELECT id, title, description, created_at
FROM demo_entries
ORDER BY created_at DESC;
`
	rows, err := conn.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.DemoEntry
	for rows.Next() {
		var e domain.DemoEntry
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// Create inserts a new entry and returns the stored row. The store
// generates id and created_at.
func (r *EntryRepository) Create(ctx context.Context, title string, description *string) (domain.DemoEntry, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return domain.DemoEntry{}, fmt.Errorf("acquiring connection: %w", err)
	}
	defer conn.Release()

	const q = `
INSERT INTO demo_entries (title, description)
VALUES ($1, $2)
RETURNING id, title, description, created_at;
`
	var e domain.DemoEntry
	err = conn.QueryRow(ctx, q, title, description).
		Scan(&e.ID, &e.Title, &e.Description, &e.CreatedAt)
	if err != nil {
		return domain.DemoEntry{}, err
	}

	return e, nil
}

// Delete removes the entry with the given id. Deleting a missing row is
// not an error.
func (r *EntryRepository) Delete(ctx context.Context, id int64) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquiring connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `DELETE FROM demo_entries WHERE id = $1;`, id)
	return err
}
