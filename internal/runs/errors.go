package runs

import (
	"errors"
	"net/http"
)

// Domain errors for training run operations.
var (
	ErrNotFound  = errors.New("training run not found")
	ErrDuplicate = errors.New("training run already recorded")
	ErrInvalid   = errors.New("invalid training run")
)

// MapHTTPStatus maps run domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
