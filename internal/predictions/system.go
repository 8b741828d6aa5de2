// Package predictions serves disease predictions from a loaded model.
package predictions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/prognosis/internal/symptoms"
)

// Model is a trained classifier together with the schema its input
// vectors must follow.
type Model interface {
	Symptoms() symptoms.Schema
	Predict(batch [][]float64) ([]string, error)
}

// System defines the public contract for prediction operations.
type System interface {
	Handler(maxRequestSize int64) *Handler
	Predict(ctx context.Context, raw []string) (*Result, error)
}

type predictor struct {
	model   Model
	encoder *symptoms.Encoder
	logger  *slog.Logger
}

// New builds a prediction System around model. The model and its schema are
// never modified, so the System is safe for concurrent requests.
func New(model Model, logger *slog.Logger) System {
	return &predictor{
		model:   model,
		encoder: symptoms.NewEncoder(model.Symptoms()),
		logger:  logger.With("system", "predictions"),
	}
}

func (p *predictor) Handler(maxRequestSize int64) *Handler {
	return NewHandler(p, p.logger, maxRequestSize)
}

// Predict encodes raw against the model schema and returns the predicted label.
func (p *predictor) Predict(ctx context.Context, raw []string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, &Error{Kind: KindInternal, Message: MsgPredictionFailed, Err: err}
	}

	enc, err := p.encoder.Encode(raw)
	if err != nil {
		if errors.Is(err, symptoms.ErrNoSymptoms) {
			return nil, &Error{Kind: KindInput, Message: MsgNoSymptoms, Err: err}
		}
		return nil, &Error{Kind: KindEncoding, Message: err.Error(), Err: err}
	}

	if len(enc.Unknown) > 0 {
		p.logger.Debug("ignored unknown symptoms", "symptoms", enc.Unknown)
	}

	labels, err := p.model.Predict([][]float64{enc.Vector})
	if err != nil {
		return nil, &Error{Kind: KindInternal, Message: MsgPredictionFailed, Err: err}
	}
	if len(labels) != 1 {
		return nil, &Error{
			Kind:    KindInternal,
			Message: MsgPredictionFailed,
			Err:     fmt.Errorf("model returned %d labels for one row", len(labels)),
		}
	}

	return &Result{
		PredictedDisease: labels[0],
		InputSymptoms:    enc.Normalized,
		Message:          Message,
	}, nil
}
