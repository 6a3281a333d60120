package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pr-poehali-dev/cloud-test-site/internal/errs"
)

type samplePayload struct {
	Title       string  `json:"title" validate:"required,min=1,max=255"`
	Description *string `json:"description"`
}

func (p *samplePayload) Validate() error {
	return Struct(p)
}

func TestParseAndValidate_ValidBody(t *testing.T) {
	payload := &samplePayload{}

	err := ParseAndValidate(`{"title": "hello", "description": "world"}`, payload)

	require.NoError(t, err)
	assert.Equal(t, "hello", payload.Title)
	require.NotNil(t, payload.Description)
	assert.Equal(t, "world", *payload.Description)
}

func TestParseAndValidate_NullDescription(t *testing.T) {
	payload := &samplePayload{}

	err := ParseAndValidate(`{"title": "hello", "description": null}`, payload)

	require.NoError(t, err)
	assert.Nil(t, payload.Description)
}

func TestParseAndValidate_MalformedJSON(t *testing.T) {
	for _, body := range []string{`{"title":`, `[1, 2`, `not json`} {
		err := ParseAndValidate(body, &samplePayload{})

		var httpErr *errs.HTTPError
		require.ErrorAs(t, err, &httpErr, body)
		assert.Equal(t, 400, httpErr.Status)
		assert.Equal(t, "Invalid JSON body", httpErr.Message)
	}
}

func TestParseAndValidate_EmptyBodyBecomesEmptyObject(t *testing.T) {
	for _, body := range []string{"", "   ", "\n\t"} {
		err := ParseAndValidate(body, &samplePayload{})

		var httpErr *errs.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, 400, httpErr.Status)
		assert.Equal(t, "Title is required", httpErr.Message)
	}
}

func TestParseAndValidate_FieldMessages(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"missing required field", `{}`, "Title is required"},
		{"too long", `{"title": "` + longTitle(256) + `"}`, "Title must not exceed 255 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ParseAndValidate(tt.body, &samplePayload{})

			var httpErr *errs.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, 400, httpErr.Status)
			assert.Equal(t, tt.message, httpErr.Message)
			require.NotEmpty(t, httpErr.Fields)
			assert.Equal(t, "title", httpErr.Fields[0].Field)
		})
	}
}

func TestParseAndValidate_BoundaryLength(t *testing.T) {
	payload := &samplePayload{}

	err := ParseAndValidate(`{"title": "`+longTitle(255)+`"}`, payload)

	assert.NoError(t, err)
}

func longTitle(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = 'x'
	}
	return string(b)
}
