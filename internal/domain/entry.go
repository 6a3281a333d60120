// Package domain holds the persisted data model.
package domain

import (
	"encoding/json"
	"time"
)

// DemoEntry is the persisted record this system manages.
//
// ID and CreatedAt are generated by the store and immutable; Title is
// always non-empty and at most 255 characters once stored; Description
// is optional and nullable.
type DemoEntry struct {
	ID          int64
	Title       string
	Description *string
	CreatedAt   *time.Time
}

// MarshalJSON renders created_at as an ISO-8601 (RFC 3339, UTC) string,
// or null when the timestamp is absent.
func (e DemoEntry) MarshalJSON() ([]byte, error) {
	var createdAt *string
	if e.CreatedAt != nil {
		s := e.CreatedAt.UTC().Format(time.RFC3339)
		createdAt = &s
	}

	return json.Marshal(struct {
		ID          int64   `json:"id"`
		Title       string  `json:"title"`
		Description *string `json:"description"`
		CreatedAt   *string `json:"created_at"`
	}{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		CreatedAt:   createdAt,
	})
}
