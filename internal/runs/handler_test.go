package runs_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/prognosis/internal/runs"
	"github.com/JaimeStill/prognosis/pkg/pagination"
	"github.com/JaimeStill/prognosis/pkg/routes"
)

type mockSystem struct {
	listFn   func(ctx context.Context, page pagination.PageRequest, filters runs.Filters) (*pagination.PageResult[runs.Run], error)
	findFn   func(ctx context.Context, id uuid.UUID) (*runs.Run, error)
	recordFn func(ctx context.Context, cmd runs.RecordCommand) (*runs.Run, error)
}

func (m *mockSystem) Handler() *runs.Handler {
	return runs.NewHandler(m, slog.New(slog.NewTextHandler(io.Discard, nil)), pagination.Config{DefaultPageSize: 20, MaxPageSize: 100})
}

func (m *mockSystem) List(ctx context.Context, page pagination.PageRequest, filters runs.Filters) (*pagination.PageResult[runs.Run], error) {
	return m.listFn(ctx, page, filters)
}

func (m *mockSystem) Find(ctx context.Context, id uuid.UUID) (*runs.Run, error) {
	return m.findFn(ctx, id)
}

func (m *mockSystem) Record(ctx context.Context, cmd runs.RecordCommand) (*runs.Run, error) {
	return m.recordFn(ctx, cmd)
}

func setupMux(sys *mockSystem) *http.ServeMux {
	mux := http.NewServeMux()
	routes.Register(mux, sys.Handler().Routes())
	return mux
}

func ptr[T any](v T) *T { return &v }

func sampleRun() runs.Run {
	return runs.Run{
		ID:          uuid.MustParse("550e8400-e29b-41d4-a716-446655440000"),
		ArtifactKey: "disease_model.gob",
		DatasetPath: "Training.csv",
		Label:       "prognosis",
		Features:    132,
		Classes:     41,
		TrainRows:   3936,
		TestRows:    984,
		Accuracy:    ptr(1.0),
		Seed:        42,
		Estimators:  100,
		SizeBytes:   2048,
		TrainedAt:   time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		RecordedAt:  time.Date(2026, 3, 1, 9, 0, 1, 0, time.UTC),
	}
}

func pageOf(items ...runs.Run) *pagination.PageResult[runs.Run] {
	result := pagination.NewPageResult(items, len(items), 1, 20)
	return &result
}

func TestHandlerList(t *testing.T) {
	run := sampleRun()

	var (
		gotPage    pagination.PageRequest
		gotFilters runs.Filters
	)
	sys := &mockSystem{
		listFn: func(_ context.Context, page pagination.PageRequest, filters runs.Filters) (*pagination.PageResult[runs.Run], error) {
			gotPage, gotFilters = page, filters
			return pageOf(run), nil
		},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/runs?label=prognosis&dataset_path=train&page=2&page_size=5&sort=-Accuracy", nil)
	setupMux(sys).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var result pagination.PageResult[runs.Run]
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(result.Data) != 1 || result.Data[0].ID != run.ID {
		t.Errorf("data = %+v", result.Data)
	}

	if gotPage.Page != 2 || gotPage.PageSize != 5 || len(gotPage.Sort) != 1 {
		t.Errorf("page = %+v", gotPage)
	}
	if gotFilters.Label == nil || *gotFilters.Label != "prognosis" {
		t.Errorf("label filter = %v", gotFilters.Label)
	}
	if gotFilters.DatasetPath == nil || *gotFilters.DatasetPath != "train" {
		t.Errorf("dataset_path filter = %v", gotFilters.DatasetPath)
	}
	if gotFilters.ArtifactKey != nil {
		t.Errorf("artifact_key filter = %v, want nil", *gotFilters.ArtifactKey)
	}
}

func TestHandlerListBadFilter(t *testing.T) {
	sys := &mockSystem{
		listFn: func(context.Context, pagination.PageRequest, runs.Filters) (*pagination.PageResult[runs.Run], error) {
			t.Fatal("List should not be called")
			return nil, nil
		},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/runs?min_accuracy=most", nil)
	setupMux(sys).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandlerListError(t *testing.T) {
	sys := &mockSystem{
		listFn: func(context.Context, pagination.PageRequest, runs.Filters) (*pagination.PageResult[runs.Run], error) {
			return nil, errors.New("connection refused")
		},
	}

	rec := httptest.NewRecorder()
	setupMux(sys).ServeHTTP(rec, httptest.NewRequest("GET", "/runs", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestHandlerFind(t *testing.T) {
	run := sampleRun()

	sys := &mockSystem{
		findFn: func(_ context.Context, id uuid.UUID) (*runs.Run, error) {
			if id == run.ID {
				return &run, nil
			}
			return nil, runs.ErrNotFound
		},
	}
	mux := setupMux(sys)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"found", "/runs/" + run.ID.String(), http.StatusOK},
		{"not found", "/runs/" + uuid.NewString(), http.StatusNotFound},
		{"invalid id", "/runs/not-a-uuid", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.status != http.StatusOK {
				return
			}

			var got runs.Run
			if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.ArtifactKey != run.ArtifactKey || got.Accuracy == nil || *got.Accuracy != 1 {
				t.Errorf("run = %+v", got)
			}
		})
	}
}

func TestHandlerSearch(t *testing.T) {
	var gotFilters runs.Filters
	var gotPage pagination.PageRequest

	sys := &mockSystem{
		listFn: func(_ context.Context, page pagination.PageRequest, filters runs.Filters) (*pagination.PageResult[runs.Run], error) {
			gotPage, gotFilters = page, filters
			return pageOf(), nil
		},
	}
	mux := setupMux(sys)

	t.Run("valid body", func(t *testing.T) {
		body := `{"page": 0, "page_size": 500, "artifact_key": "disease_model.gob", "sort": "-TrainedAt"}`
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("POST", "/runs/search", strings.NewReader(body)))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if gotPage.Page != 1 || gotPage.PageSize != 100 {
			t.Errorf("page not normalized: %+v", gotPage)
		}
		if gotFilters.ArtifactKey == nil || *gotFilters.ArtifactKey != "disease_model.gob" {
			t.Errorf("artifact_key = %v", gotFilters.ArtifactKey)
		}
	})

	t.Run("invalid body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("POST", "/runs/search", strings.NewReader("{")))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{runs.ErrNotFound, http.StatusNotFound},
		{runs.ErrDuplicate, http.StatusConflict},
		{runs.ErrInvalid, http.StatusBadRequest},
		{errors.New("other"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := runs.MapHTTPStatus(tt.err); got != tt.want {
			t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
