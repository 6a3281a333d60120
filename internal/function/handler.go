package function

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/pr-poehali-dev/cloud-test-site/internal/domain"
	"github.com/pr-poehali-dev/cloud-test-site/internal/errs"
	"github.com/pr-poehali-dev/cloud-test-site/internal/sqlerr"
	"github.com/pr-poehali-dev/cloud-test-site/internal/validation"
)

// EntryStore is the persistence surface the handler dispatches to.
// It is satisfied by *service.EntryService; tests substitute a stub.
type EntryStore interface {
	List(ctx context.Context) ([]domain.DemoEntry, error)
	Create(ctx context.Context, title string, description *string) (domain.DemoEntry, error)
	Delete(ctx context.Context, id int64) error
}

// Handler is the entry request handler: a stateless dispatcher over the
// four supported methods. One invocation handles exactly one request to
// completion; store resources are scoped per operation and released on
// every exit path by the repository layer.
type Handler struct {
	store  EntryStore
	logger zerolog.Logger
}

// NewHandler constructs a Handler over the given store.
func NewHandler(store EntryStore, logger zerolog.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: logger,
	}
}

// listResponse is the GET 200 body.
type listResponse struct {
	Entries []domain.DemoEntry `json:"entries"`
}

// successResponse is the DELETE 200 body.
type successResponse struct {
	Success bool `json:"success"`
}

// Handle executes one invocation.
//
// A request with no method is treated as GET. Every branch except
// OPTIONS responds with Content-Type: application/json and
// Access-Control-Allow-Origin: *; OPTIONS responds with the full CORS
// preflight header set and an empty body.
func (h *Handler) Handle(ctx context.Context, req Request) Response {
	method := req.HTTPMethod
	if method == "" {
		method = http.MethodGet
	}

	switch method {
	case http.MethodOptions:
		// Preflight never touches the database.
		return preflightResponse()

	case http.MethodGet:
		return h.handleList(ctx)

	case http.MethodPost:
		return h.handleCreate(ctx, req.Body)

	case http.MethodDelete:
		return h.handleDelete(ctx, req.QueryStringParameters)

	default:
		h.logger.Warn().Str("method", method).Msg("method not allowed")
		return h.errorResponse(errs.NewMethodNotAllowedError())
	}
}

func (h *Handler) handleList(ctx context.Context) Response {
	entries, err := h.store.List(ctx)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list entries")
		return h.errorResponse(sqlerr.HandleError(err))
	}

	if entries == nil {
		entries = []domain.DemoEntry{}
	}

	return jsonResponse(http.StatusOK, listResponse{Entries: entries})
}

func (h *Handler) handleCreate(ctx context.Context, body string) Response {
	payload := &CreateEntryRequest{}
	if err := validation.ParseAndValidate(body, payload); err != nil {
		h.logger.Warn().Err(err).Msg("entry validation failed")
		return h.errorResponse(err)
	}

	entry, err := h.store.Create(ctx, payload.Title, payload.Description)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to create entry")
		return h.errorResponse(sqlerr.HandleError(err))
	}

	return jsonResponse(http.StatusCreated, entry)
}

func (h *Handler) handleDelete(ctx context.Context, params map[string]string) Response {
	raw := params["id"]
	if raw == "" {
		// No database work happens without an id.
		return h.errorResponse(errs.NewBadRequestError("ID is required"))
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return h.errorResponse(errs.NewBadRequestError("ID must be an integer"))
	}

	// Deleting a row that does not exist is an idempotent no-op.
	if err := h.store.Delete(ctx, id); err != nil {
		h.logger.Error().Err(err).Int64("id", id).Msg("failed to delete entry")
		return h.errorResponse(sqlerr.HandleError(err))
	}

	return jsonResponse(http.StatusOK, successResponse{Success: true})
}

// errorResponse renders any error as the wire contract's error body.
// Non-HTTP errors collapse into a generic 500.
func (h *Handler) errorResponse(err error) Response {
	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) {
		httpErr = errs.NewInternalServerError()
	}
	return jsonResponse(httpErr.Status, httpErr.WireBody())
}
