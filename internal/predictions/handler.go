package predictions

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/prognosis/pkg/handlers"
	"github.com/JaimeStill/prognosis/pkg/routes"
)

// Handler provides the HTTP endpoint for predictions.
type Handler struct {
	sys            System
	logger         *slog.Logger
	maxRequestSize int64
}

// NewHandler creates a Handler. Request bodies larger than maxRequestSize
// are rejected; zero disables the limit.
func NewHandler(sys System, logger *slog.Logger, maxRequestSize int64) *Handler {
	return &Handler{
		sys:            sys,
		logger:         logger.With("handler", "predictions"),
		maxRequestSize: maxRequestSize,
	}
}

// Routes returns the route group for the prediction module root.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:  "",
		Tags:    []string{"Predictions"},
		Schemas: schemas,
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/{$}", Handler: h.Predict, OpenAPI: predictOp},
		},
	}
}

// Predict decodes {"symptoms": [...]} and responds with the predicted disease.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	if h.maxRequestSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestSize)
	}

	req, err := decodeRequest(r.Body)
	if err != nil {
		h.respondError(w, decodeError(err))
		return
	}

	result, err := h.sys.Predict(r.Context(), req.Symptoms)
	if err != nil {
		h.respondError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	handlers.RespondMessage(w, h.logger, MapHTTPStatus(err), clientMessage(err), err)
}

var errTrailingData = errors.New("unexpected data after JSON object")

// decodeRequest reads exactly one JSON value. Anything but whitespace after
// it is an error.
func decodeRequest(body io.Reader) (Request, error) {
	var req Request
	dec := json.NewDecoder(body)
	if err := dec.Decode(&req); err != nil {
		return req, err
	}

	switch err := dec.Decode(&struct{}{}); {
	case err == io.EOF:
		return req, nil
	case err == nil:
		return req, errTrailingData
	default:
		return req, err
	}
}

func decodeError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return &Error{Kind: KindTooLarge, Message: "request body too large", Err: err}
	}
	return &Error{Kind: KindEncoding, Message: "invalid request body: " + err.Error(), Err: err}
}
