package predictions_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"testing"

	"github.com/JaimeStill/prognosis/internal/predictions"
	"github.com/JaimeStill/prognosis/internal/symptoms"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakeModel records the batches it receives and answers with predictFn.
type fakeModel struct {
	schema    symptoms.Schema
	predictFn func(batch [][]float64) ([]string, error)

	mu      sync.Mutex
	batches [][][]float64
}

func (m *fakeModel) Symptoms() symptoms.Schema { return m.schema }

func (m *fakeModel) Predict(batch [][]float64) ([]string, error) {
	m.mu.Lock()
	m.batches = append(m.batches, batch)
	m.mu.Unlock()

	if m.predictFn != nil {
		return m.predictFn(batch)
	}
	labels := make([]string, len(batch))
	for i := range labels {
		labels[i] = "Fungal infection"
	}
	return labels, nil
}

func newFake() *fakeModel {
	return &fakeModel{schema: symptoms.Schema{"itching", "skin_rash", "fatigue"}}
}

func TestPredict(t *testing.T) {
	model := newFake()
	sys := predictions.New(model, discard)

	result, err := sys.Predict(context.Background(), []string{"Skin Rash", "itching"})
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}

	if result.PredictedDisease != "Fungal infection" {
		t.Errorf("PredictedDisease: got %q", result.PredictedDisease)
	}
	if !slices.Equal(result.InputSymptoms, []string{"skin_rash", "itching"}) {
		t.Errorf("InputSymptoms: got %v", result.InputSymptoms)
	}
	if result.Message != predictions.Message {
		t.Errorf("Message: got %q, want %q", result.Message, predictions.Message)
	}

	if len(model.batches) != 1 || len(model.batches[0]) != 1 {
		t.Fatalf("model called with %v, want one single-row batch", model.batches)
	}
	if got := model.batches[0][0]; !slices.Equal(got, []float64{1, 1, 0}) {
		t.Errorf("vector: got %v, want [1 1 0]", got)
	}
}

func TestPredictUnknownSymptoms(t *testing.T) {
	model := newFake()
	sys := predictions.New(model, discard)

	result, err := sys.Predict(context.Background(), []string{"unicorn_horn"})
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if got := model.batches[0][0]; !slices.Equal(got, []float64{0, 0, 0}) {
		t.Errorf("vector: got %v, want all zeros", got)
	}
	if !slices.Equal(result.InputSymptoms, []string{"unicorn_horn"}) {
		t.Errorf("InputSymptoms: got %v", result.InputSymptoms)
	}
}

func TestPredictErrors(t *testing.T) {
	modelErr := errors.New("tree exploded")

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name      string
		ctx       context.Context
		raw       []string
		predictFn func([][]float64) ([]string, error)
		kind      predictions.Kind
		status    int
	}{
		{
			name:   "nil symptoms",
			ctx:    context.Background(),
			raw:    nil,
			kind:   predictions.KindInput,
			status: http.StatusBadRequest,
		},
		{
			name:   "empty symptoms",
			ctx:    context.Background(),
			raw:    []string{},
			kind:   predictions.KindInput,
			status: http.StatusBadRequest,
		},
		{
			name:      "model failure",
			ctx:       context.Background(),
			raw:       []string{"itching"},
			predictFn: func([][]float64) ([]string, error) { return nil, modelErr },
			kind:      predictions.KindInternal,
			status:    http.StatusInternalServerError,
		},
		{
			name:      "no labels",
			ctx:       context.Background(),
			raw:       []string{"itching"},
			predictFn: func([][]float64) ([]string, error) { return nil, nil },
			kind:      predictions.KindInternal,
			status:    http.StatusInternalServerError,
		},
		{
			name:   "cancelled",
			ctx:    cancelled,
			raw:    []string{"itching"},
			kind:   predictions.KindInternal,
			status: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := newFake()
			model.predictFn = tt.predictFn
			sys := predictions.New(model, discard)

			_, err := sys.Predict(tt.ctx, tt.raw)

			var perr *predictions.Error
			if !errors.As(err, &perr) {
				t.Fatalf("error %v is not a *predictions.Error", err)
			}
			if perr.Kind != tt.kind {
				t.Errorf("Kind: got %q, want %q", perr.Kind, tt.kind)
			}
			if got := predictions.MapHTTPStatus(err); got != tt.status {
				t.Errorf("MapHTTPStatus: got %d, want %d", got, tt.status)
			}
		})
	}
}

func TestPredictNoSymptomsWrapsSentinel(t *testing.T) {
	sys := predictions.New(newFake(), discard)

	_, err := sys.Predict(context.Background(), nil)
	if !errors.Is(err, symptoms.ErrNoSymptoms) {
		t.Errorf("error %v does not wrap ErrNoSymptoms", err)
	}
}

func TestPredictConcurrent(t *testing.T) {
	sys := predictions.New(newFake(), discard)

	var wg sync.WaitGroup
	for range 32 {
		wg.Go(func() {
			if _, err := sys.Predict(context.Background(), []string{"fatigue"}); err != nil {
				t.Errorf("Predict() error = %v", err)
			}
		})
	}
	wg.Wait()
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"input", &predictions.Error{Kind: predictions.KindInput}, http.StatusBadRequest},
		{"encoding", &predictions.Error{Kind: predictions.KindEncoding}, http.StatusInternalServerError},
		{"too large", &predictions.Error{Kind: predictions.KindTooLarge}, http.StatusRequestEntityTooLarge},
		{"internal", &predictions.Error{Kind: predictions.KindInternal}, http.StatusInternalServerError},
		{"untagged", errors.New("other"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := predictions.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}
