package sqlerr

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pr-poehali-dev/cloud-test-site/internal/errs"
)

// HandleError converts a database error into the application error the
// client should see.
//
// Mapping:
//   - pgx.ErrNoRows            -> 404 (callers that treat missing rows as
//     a no-op must not route through here)
//   - constraint violations    -> 400 with a humanized message
//   - connection failures,
//     timeouts, everything else -> generic 500
//
// If err is already an *errs.HTTPError it is returned unchanged, so the
// funnel can be called on any error without double wrapping.
func HandleError(err error) error {
	if err == nil {
		return nil
	}

	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return errs.NewNotFoundError("Record not found")
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.NewInternalServerError()
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return handlePgError(Convert(pgErr))
	}

	return errs.NewInternalServerError()
}

// handlePgError maps a normalized Postgres error onto a client response.
func handlePgError(sqlErr *Error) error {
	entity := entityName(sqlErr.TableName, sqlErr.ColumnName)

	switch sqlErr.Code {
	case UniqueViolation:
		return errs.NewBadRequestError(fmt.Sprintf("A %s with this identifier already exists", entity))

	case ForeignKeyViolation:
		return errs.NewBadRequestError(fmt.Sprintf("The referenced %s does not exist", entity))

	case NotNullViolation:
		field := humanizeText(sqlErr.ColumnName)
		if field == "" {
			field = "field"
		}
		return errs.NewBadRequestError(fmt.Sprintf("The %s is required", field))

	case CheckViolation:
		field := humanizeText(sqlErr.ColumnName)
		if field != "" {
			return errs.NewBadRequestError(fmt.Sprintf("The %s value does not meet required conditions", field))
		}
		return errs.NewBadRequestError("One or more values do not meet required conditions")

	default:
		// Connectivity problems and unclassified driver errors are not
		// the client's fault and must not leak details.
		return errs.NewInternalServerError()
	}
}
