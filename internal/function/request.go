package function

import "github.com/pr-poehali-dev/cloud-test-site/internal/validation"

// CreateEntryRequest is the POST payload for creating a demo entry.
// Title is required and limited to 255 characters; Description is
// optional and may be null.
type CreateEntryRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=255"`
	Description *string `json:"description"`
}

// Validate applies the struct-tag rules.
func (r *CreateEntryRequest) Validate() error {
	return validation.Struct(r)
}
