package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a trip does not exist
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write collides with a concurrent writer
	ErrConflict = errors.New("conflict")
)

// PostgreSQL error codes
const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgInvalidTextRep       = "22P02"
)

// mapError translates driver errors into the package's sentinel errors
func mapError(err error, action string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgInvalidTextRep:
			// a trip id that is not a UUID cannot match any row
			return ErrNotFound
		case pgUniqueViolation, pgSerializationFailure, pgDeadlockDetected:
			return fmt.Errorf("%s: %w: %s", action, ErrConflict, pgErr.Message)
		}
	}
	return fmt.Errorf("%s: %w", action, err)
}
