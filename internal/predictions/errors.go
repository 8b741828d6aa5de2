package predictions

import (
	"errors"
	"net/http"
)

// Kind classifies a prediction failure.
type Kind string

const (
	KindInput    Kind = "input"
	KindEncoding Kind = "encoding"
	KindTooLarge Kind = "too_large"
	KindInternal Kind = "internal"
)

// Messages returned to clients.
const (
	MsgNoSymptoms       = "No symptoms provided"
	MsgPredictionFailed = "prediction failed"
)

// Error is a prediction failure tagged with the kind that decides its
// HTTP status. Message is safe to return to the client; Err is logged.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// MapHTTPStatus maps prediction errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	var perr *Error
	if !errors.As(err, &perr) {
		return http.StatusInternalServerError
	}
	switch perr.Kind {
	case KindInput:
		return http.StatusBadRequest
	case KindTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// clientMessage returns the message a client should see for err.
func clientMessage(err error) string {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Message
	}
	return MsgPredictionFailed
}
