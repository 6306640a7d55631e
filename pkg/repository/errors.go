package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL class 23 integrity violation for duplicate keys.
const uniqueViolation = "23505"

// MapError translates storage errors into the caller's domain errors:
// sql.ErrNoRows becomes notFoundErr, a unique constraint violation becomes
// duplicateErr, and anything else passes through unchanged.
func MapError(err error, notFoundErr, duplicateErr error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return notFoundErr
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return duplicateErr
	}

	return err
}
