package store

import (
	"errors"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/rshah/taskflow/backend/internal/apperr"
)

// mapErr translates driver-level constraint violations into the application
// error taxonomy so SQLite error codes never leak to clients. Uniqueness
// maps to 409, data-shape constraints to 400, everything else to a generic
// database error.
func mapErr(err error) error {
	var serr sqlite3.Error
	if !errors.As(err, &serr) {
		return apperr.Database("Database error").WithCause(err)
	}

	switch serr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return apperr.Conflict("Resource already exists").WithCause(err)
	case sqlite3.ErrConstraintCheck, sqlite3.ErrConstraintNotNull:
		return apperr.BadRequest("Invalid field value").WithCause(err)
	case sqlite3.ErrConstraintForeignKey:
		return apperr.BadRequest("Referenced resource does not exist").WithCause(err)
	}
	return apperr.Database("Database error").WithCause(err)
}

// isUniqueViolation lets callers attach a context-specific message to
// duplicate-key failures.
func isUniqueViolation(err error) bool {
	var serr sqlite3.Error
	return errors.As(err, &serr) && serr.ExtendedCode == sqlite3.ErrConstraintUnique
}
