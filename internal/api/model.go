package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/prognosis/internal/artifact"
	"github.com/JaimeStill/prognosis/internal/config"
	"github.com/JaimeStill/prognosis/internal/symptoms"
	"github.com/JaimeStill/prognosis/pkg/dataset"
	"github.com/JaimeStill/prognosis/pkg/handlers"
	"github.com/JaimeStill/prognosis/pkg/openapi"
	"github.com/JaimeStill/prognosis/pkg/routes"
	"github.com/JaimeStill/prognosis/pkg/storage"
)

// Model is a loaded artifact together with where it was read from.
type Model struct {
	Artifact *artifact.Artifact
	Key      string
	Size     int64
}

// LoadModel reads the artifact stored at cfg.ArtifactKey. When verification
// is enabled and the dataset file is present, the dataset's symptom columns
// must match the artifact schema or symptoms.ErrSchemaMismatch is returned.
func LoadModel(ctx context.Context, cfg *config.ModelConfig, store storage.System, logger *slog.Logger) (*Model, error) {
	a, size, err := artifact.Load(ctx, store, cfg.ArtifactKey)
	if err != nil {
		return nil, err
	}

	if cfg.Verify() {
		if err := verifyDataset(cfg.DatasetPath, a.Symptoms(), logger); err != nil {
			return nil, err
		}
	}

	return &Model{Artifact: a, Key: cfg.ArtifactKey, Size: size}, nil
}

func verifyDataset(path string, schema symptoms.Schema, logger *slog.Logger) error {
	ds, err := dataset.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Info("dataset not present, skipping schema check", "path", path)
		return nil
	}
	if err != nil {
		return err
	}

	current, _, err := symptoms.Resolve(ds.Columns)
	if err != nil {
		return fmt.Errorf("dataset %s: %w", path, err)
	}
	if err := schema.Verify(current); err != nil {
		return fmt.Errorf("dataset %s: %w", path, err)
	}
	return nil
}

// ModelInfo describes the artifact the server is predicting with.
type ModelInfo struct {
	ID           uuid.UUID        `json:"id"`
	TrainedAt    time.Time        `json:"trained_at"`
	DatasetPath  string           `json:"dataset_path,omitempty"`
	Label        string           `json:"label"`
	Classes      []string         `json:"classes"`
	Features     int              `json:"features"`
	Seed         int64            `json:"seed"`
	Metrics      artifact.Metrics `json:"metrics"`
	ArtifactKey  string           `json:"artifact_key"`
	ArtifactSize int64            `json:"artifact_size"`
}

// SymptomList is the set of symptom names the model recognizes, in schema order.
type SymptomList struct {
	Symptoms []string `json:"symptoms"`
}

type modelHandler struct {
	info   ModelInfo
	store  storage.System
	logger *slog.Logger
}

func newModelHandler(runtime *Runtime) *modelHandler {
	a := runtime.Model
	return &modelHandler{
		info: ModelInfo{
			ID:           a.ID,
			TrainedAt:    a.TrainedAt,
			DatasetPath:  a.DatasetPath,
			Label:        a.Label,
			Classes:      a.Classes,
			Features:     a.Features(),
			Seed:         a.Seed,
			Metrics:      a.Metrics,
			ArtifactKey:  runtime.ArtifactKey,
			ArtifactSize: runtime.ArtifactSize,
		},
		store:  runtime.Storage,
		logger: runtime.Logger.With("handler", "model"),
	}
}

func (h *modelHandler) routes(symptoms []string) routes.Group {
	list := SymptomList{Symptoms: symptoms}

	return routes.Group{
		Prefix:  "/model",
		Tags:    []string{"Model"},
		Schemas: modelSchemas,
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.find, OpenAPI: modelInfoOp},
			{
				Method: "GET", Pattern: "/symptoms",
				Handler: func(w http.ResponseWriter, r *http.Request) {
					handlers.RespondJSON(w, http.StatusOK, list)
				},
				OpenAPI: modelSymptomsOp,
			},
			{Method: "GET", Pattern: "/artifact", Handler: h.download, OpenAPI: modelArtifactOp},
		},
	}
}

func (h *modelHandler) find(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.info)
}

// download streams the stored blob. It may differ from the loaded model if
// the trainer has replaced it since startup.
func (h *modelHandler) download(w http.ResponseWriter, r *http.Request) {
	body, err := h.store.Download(r.Context(), h.info.ArtifactKey)
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", artifact.ContentType)
	w.Header().Set(
		"Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", path.Base(h.info.ArtifactKey)),
	)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		h.logger.Warn("artifact download interrupted", "error", err)
	}
}

var modelSchemas = map[string]*openapi.Schema{
	"ModelInfo": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":            {Type: "string", Format: "uuid"},
			"trained_at":    {Type: "string", Format: "date-time"},
			"dataset_path":  {Type: "string"},
			"label":         {Type: "string"},
			"classes":       openapi.ArrayOf(&openapi.Schema{Type: "string"}),
			"features":      {Type: "integer"},
			"seed":          {Type: "integer"},
			"artifact_key":  {Type: "string"},
			"artifact_size": {Type: "integer"},
			"metrics": {
				Type: "object",
				Properties: map[string]*openapi.Schema{
					"train_rows": {Type: "integer"},
					"test_rows":  {Type: "integer"},
					"accuracy":   {Type: "number"},
				},
			},
		},
	},
	"SymptomList": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"symptoms": openapi.ArrayOf(&openapi.Schema{Type: "string"}),
		},
	},
}

var modelInfoOp = &openapi.Operation{
	OperationID: "getModel",
	Summary:     "Describe the loaded model",
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Model metadata", "ModelInfo"),
	},
}

var modelSymptomsOp = &openapi.Operation{
	OperationID: "listSymptoms",
	Summary:     "List recognized symptoms",
	Description: "Symptom names in the order of the model's feature vector.",
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Symptoms", "SymptomList"),
	},
}

var modelArtifactOp = &openapi.Operation{
	OperationID: "downloadArtifact",
	Summary:     "Download the stored model artifact",
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseBinary("Encoded artifact", artifact.ContentType),
		404: openapi.ResponseRef("NotFound"),
		500: openapi.ResponseRef("InternalError"),
	},
}
