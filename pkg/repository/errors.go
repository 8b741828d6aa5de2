package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes translated by Errors.Map.
const (
	pgUniqueViolation  = "23505"
	pgCheckViolation   = "23514"
	pgNotNullViolation = "23502"
)

// Errors names the domain errors that database failures translate to.
// A nil field leaves the matching failure untranslated.
type Errors struct {
	NotFound  error
	Duplicate error
	Invalid   error
}

// Map translates err to the configured domain error. No-row results map to
// NotFound, unique violations to Duplicate, and check or not-null violations
// to Invalid. Other errors are returned unchanged.
func (e Errors) Map(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
		return orElse(e.NotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return orElse(e.Duplicate, err)
		case pgCheckViolation, pgNotNullViolation:
			return orElse(e.Invalid, err)
		}
	}

	return err
}

// MapError translates no-row and unique-violation errors.
func MapError(err error, notFoundErr, duplicateErr error) error {
	return Errors{NotFound: notFoundErr, Duplicate: duplicateErr}.Map(err)
}

func orElse(mapped, err error) error {
	if mapped == nil {
		return err
	}
	return mapped
}
