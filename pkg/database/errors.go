package database

import "errors"

var (
	// ErrNotReady indicates the database connection could not be established.
	ErrNotReady = errors.New("database not ready")
	// ErrDisabled indicates the database is turned off in configuration.
	ErrDisabled = errors.New("database disabled")
)
