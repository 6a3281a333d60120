package function

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pr-poehali-dev/cloud-test-site/internal/domain"
)

// stubStore is an in-memory EntryStore for handler tests.
type stubStore struct {
	entries []domain.DemoEntry
	nextID  int64

	listErr   error
	createErr error
	deleteErr error

	listCalls   int
	createCalls int
	deleteCalls int
	deletedIDs  []int64
}

func newStubStore() *stubStore {
	return &stubStore{nextID: 1}
}

func (s *stubStore) List(ctx context.Context) ([]domain.DemoEntry, error) {
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	// Newest first, the way the real query orders.
	out := make([]domain.DemoEntry, len(s.entries))
	copy(out, s.entries)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (s *stubStore) Create(ctx context.Context, title string, description *string) (domain.DemoEntry, error) {
	s.createCalls++
	if s.createErr != nil {
		return domain.DemoEntry{}, s.createErr
	}
	createdAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(s.nextID) * time.Minute)
	entry := domain.DemoEntry{
		ID:          s.nextID,
		Title:       title,
		Description: description,
		CreatedAt:   &createdAt,
	}
	s.nextID++
	s.entries = append(s.entries, entry)
	return entry, nil
}

func (s *stubStore) Delete(ctx context.Context, id int64) error {
	s.deleteCalls++
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deletedIDs = append(s.deletedIDs, id)
	for i, e := range s.entries {
		if e.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			break
		}
	}
	return nil
}

func newTestHandler(store EntryStore) *Handler {
	return NewHandler(store, zerolog.Nop())
}

func decodeBody(t *testing.T, resp Response) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	return body
}

func TestHandle_Options(t *testing.T) {
	store := newStubStore()
	h := newTestHandler(store)

	resp := h.Handle(context.Background(), Request{HTTPMethod: "OPTIONS"})

	assert.Equal(t, 200, resp.StatusCode)
	assert.Empty(t, resp.Body)
	assert.False(t, resp.IsBase64Encoded)

	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
	assert.Equal(t, "GET, POST, DELETE, OPTIONS", resp.Headers["Access-Control-Allow-Methods"])
	assert.Equal(t, "Content-Type", resp.Headers["Access-Control-Allow-Headers"])
	assert.Equal(t, "86400", resp.Headers["Access-Control-Max-Age"])

	// Preflight must not touch the store, even with junk attached.
	resp = h.Handle(context.Background(), Request{
		HTTPMethod:            "OPTIONS",
		Body:                  "not even json",
		QueryStringParameters: map[string]string{"id": "7"},
	})
	assert.Equal(t, 200, resp.StatusCode)
	assert.Zero(t, store.listCalls+store.createCalls+store.deleteCalls)
}

func TestHandle_MethodNotAllowed(t *testing.T) {
	h := newTestHandler(newStubStore())

	for _, method := range []string{"PUT", "PATCH", "HEAD", "TRACE"} {
		resp := h.Handle(context.Background(), Request{HTTPMethod: method})

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode, method)
		assert.JSONEq(t, `{"error": "Method not allowed"}`, resp.Body, method)
		assert.Equal(t, "application/json", resp.Headers["Content-Type"], method)
		assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"], method)
	}
}

func TestHandle_EmptyMethodDefaultsToGet(t *testing.T) {
	store := newStubStore()
	h := newTestHandler(store)

	resp := h.Handle(context.Background(), Request{})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, store.listCalls)
	assert.JSONEq(t, `{"entries": []}`, resp.Body)
}

func TestHandle_GetListsNewestFirst(t *testing.T) {
	store := newStubStore()
	h := newTestHandler(store)

	desc := "second entry"
	_, err := store.Create(context.Background(), "first", nil)
	require.NoError(t, err)
	_, err = store.Create(context.Background(), "second", &desc)
	require.NoError(t, err)
	_, err = store.Create(context.Background(), "third", nil)
	require.NoError(t, err)

	resp := h.Handle(context.Background(), Request{HTTPMethod: "GET"})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, resp.IsBase64Encoded)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])

	var body struct {
		Entries []struct {
			ID          int64   `json:"id"`
			Title       string  `json:"title"`
			Description *string `json:"description"`
			CreatedAt   *string `json:"created_at"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	require.Len(t, body.Entries, 3)

	assert.Equal(t, "third", body.Entries[0].Title)
	assert.Equal(t, "second", body.Entries[1].Title)
	assert.Equal(t, "first", body.Entries[2].Title)

	assert.Nil(t, body.Entries[0].Description)
	require.NotNil(t, body.Entries[1].Description)
	assert.Equal(t, "second entry", *body.Entries[1].Description)

	for _, e := range body.Entries {
		require.NotNil(t, e.CreatedAt)
		_, err := time.Parse(time.RFC3339, *e.CreatedAt)
		assert.NoError(t, err, "created_at must be ISO-8601: %s", *e.CreatedAt)
	}
}

func TestHandle_GetStoreFailure(t *testing.T) {
	store := newStubStore()
	store.listErr = fmt.Errorf("connection refused")
	h := newTestHandler(store)

	resp := h.Handle(context.Background(), Request{HTTPMethod: "GET"})

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error": "Internal server error"}`, resp.Body)
}

func TestHandle_PostCreatesEntry(t *testing.T) {
	store := newStubStore()
	h := newTestHandler(store)

	resp := h.Handle(context.Background(), Request{
		HTTPMethod: "POST",
		Body:       `{"title": "hello", "description": "world"}`,
	})

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.False(t, resp.IsBase64Encoded)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])

	body := decodeBody(t, resp)
	assert.Equal(t, "hello", body["title"])
	assert.Equal(t, "world", body["description"])
	assert.Greater(t, body["id"].(float64), float64(0))

	createdAt, ok := body["created_at"].(string)
	require.True(t, ok, "created_at must be a string")
	_, err := time.Parse(time.RFC3339, createdAt)
	assert.NoError(t, err)
}

func TestHandle_PostReturnsFreshIDs(t *testing.T) {
	store := newStubStore()
	h := newTestHandler(store)

	seen := map[float64]bool{}
	for i := 0; i < 5; i++ {
		resp := h.Handle(context.Background(), Request{
			HTTPMethod: "POST",
			Body:       fmt.Sprintf(`{"title": "entry %d"}`, i),
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		id := decodeBody(t, resp)["id"].(float64)
		assert.Greater(t, id, float64(0))
		assert.False(t, seen[id], "id %v returned twice", id)
		seen[id] = true
	}
}

func TestHandle_PostValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing title", `{"description": "no title"}`},
		{"empty title", `{"title": ""}`},
		{"title too long", fmt.Sprintf(`{"title": %q}`, strings.Repeat("x", 256))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStubStore()
			h := newTestHandler(store)

			resp := h.Handle(context.Background(), Request{HTTPMethod: "POST", Body: tt.body})

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Zero(t, store.createCalls, "invalid payload must not reach the store")

			body := decodeBody(t, resp)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestHandle_PostMaxLengthTitleAccepted(t *testing.T) {
	h := newTestHandler(newStubStore())

	resp := h.Handle(context.Background(), Request{
		HTTPMethod: "POST",
		Body:       fmt.Sprintf(`{"title": %q}`, strings.Repeat("x", 255)),
	})

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestHandle_PostMalformedJSON(t *testing.T) {
	store := newStubStore()
	h := newTestHandler(store)

	resp := h.Handle(context.Background(), Request{HTTPMethod: "POST", Body: `{"title": `})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error": "Invalid JSON body"}`, resp.Body)
	assert.Zero(t, store.createCalls)
}

func TestHandle_PostEmptyBodyTreatedAsEmptyObject(t *testing.T) {
	store := newStubStore()
	h := newTestHandler(store)

	resp := h.Handle(context.Background(), Request{HTTPMethod: "POST"})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error": "Title is required"}`, resp.Body)
}

func TestHandle_PostStoreFailure(t *testing.T) {
	store := newStubStore()
	store.createErr = fmt.Errorf("insert failed")
	h := newTestHandler(store)

	resp := h.Handle(context.Background(), Request{
		HTTPMethod: "POST",
		Body:       `{"title": "hello"}`,
	})

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error": "Internal server error"}`, resp.Body)
}

func TestHandle_DeleteRequiresID(t *testing.T) {
	for _, params := range []map[string]string{
		nil,
		{},
		{"id": ""},
		{"other": "1"},
	} {
		store := newStubStore()
		h := newTestHandler(store)

		resp := h.Handle(context.Background(), Request{
			HTTPMethod:            "DELETE",
			QueryStringParameters: params,
		})

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.JSONEq(t, `{"error": "ID is required"}`, resp.Body)
		assert.Zero(t, store.deleteCalls, "missing id must not reach the store")
	}
}

func TestHandle_DeleteRejectsNonIntegerID(t *testing.T) {
	store := newStubStore()
	h := newTestHandler(store)

	resp := h.Handle(context.Background(), Request{
		HTTPMethod:            "DELETE",
		QueryStringParameters: map[string]string{"id": "abc"},
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error": "ID must be an integer"}`, resp.Body)
	assert.Zero(t, store.deleteCalls)
}

func TestHandle_DeleteSucceeds(t *testing.T) {
	store := newStubStore()
	h := newTestHandler(store)

	created, err := store.Create(context.Background(), "doomed", nil)
	require.NoError(t, err)

	resp := h.Handle(context.Background(), Request{
		HTTPMethod:            "DELETE",
		QueryStringParameters: map[string]string{"id": fmt.Sprint(created.ID)},
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"success": true}`, resp.Body)
	assert.Equal(t, []int64{created.ID}, store.deletedIDs)
}

func TestHandle_DeleteUnknownIDIsNoOp(t *testing.T) {
	store := newStubStore()
	h := newTestHandler(store)

	resp := h.Handle(context.Background(), Request{
		HTTPMethod:            "DELETE",
		QueryStringParameters: map[string]string{"id": "424242"},
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"success": true}`, resp.Body)
}

func TestHandle_DeleteStoreFailure(t *testing.T) {
	store := newStubStore()
	store.deleteErr = fmt.Errorf("connection reset")
	h := newTestHandler(store)

	resp := h.Handle(context.Background(), Request{
		HTTPMethod:            "DELETE",
		QueryStringParameters: map[string]string{"id": "1"},
	})

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error": "Internal server error"}`, resp.Body)
}

func TestHandle_PostThenGetRoundTrip(t *testing.T) {
	store := newStubStore()
	h := newTestHandler(store)

	postResp := h.Handle(context.Background(), Request{
		HTTPMethod: "POST",
		Body:       `{"title": "round trip", "description": "still here"}`,
	})
	require.Equal(t, http.StatusCreated, postResp.StatusCode)
	created := decodeBody(t, postResp)

	getResp := h.Handle(context.Background(), Request{HTTPMethod: "GET"})
	require.Equal(t, http.StatusOK, getResp.StatusCode)

	var body struct {
		Entries []map[string]any `json:"entries"`
	}
	require.NoError(t, json.Unmarshal([]byte(getResp.Body), &body))
	require.Len(t, body.Entries, 1)

	assert.Equal(t, created["id"], body.Entries[0]["id"])
	assert.Equal(t, "round trip", body.Entries[0]["title"])
	assert.Equal(t, "still here", body.Entries[0]["description"])
	assert.Equal(t, created["created_at"], body.Entries[0]["created_at"])
}
