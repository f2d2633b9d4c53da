package jaegerdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MGavranovic/jaeger-tracker/src/jaegererr"
)

// Postgres SQLSTATE codes we translate.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// NotFound is the message every gateway uses for a missing row, so an
// application owned by someone else reads exactly like one that never existed.
func NotFound(entity string, id int64) *jaegererr.Error {
	return jaegererr.NotFound("%s with ID %d was not found.", entity, id)
}

func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var known *jaegererr.Error
	if errors.As(err, &known) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return &jaegererr.Error{Code: jaegererr.ENotFound, Op: op, Msg: "record not found", Err: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return &jaegererr.Error{Code: jaegererr.EConflict, Op: op, Msg: "record already exists", Err: err}
		case codeForeignKeyViolation:
			return &jaegererr.Error{Code: jaegererr.EInvalid, Op: op, Msg: "referenced record does not exist", Err: err}
		case codeCheckViolation:
			return &jaegererr.Error{Code: jaegererr.EInvalid, Op: op, Msg: "value rejected by storage", Err: err}
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return jaegererr.Internal(op, fmt.Errorf("storage operation timed out: %w", err))
	}
	return jaegererr.Internal(op, err)
}

// notFoundAs swaps the generic not-found from mapError for the entity message.
func notFoundAs(err error, entity string, id int64) error {
	if jaegererr.Is(err, jaegererr.ENotFound) {
		nf := NotFound(entity, id)
		nf.Err = err
		return nf
	}
	return err
}
