// Package runs records training runs and serves them for inspection.
// Each run describes one artifact written by the trainer: where it was
// stored, what it was trained on, and how it scored on held-out rows.
package runs

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/prognosis/internal/artifact"
)

// Run is a recorded training run. ID matches the artifact ID.
type Run struct {
	ID          uuid.UUID `json:"id"`
	ArtifactKey string    `json:"artifact_key"`
	DatasetPath string    `json:"dataset_path"`
	Label       string    `json:"label"`
	Features    int       `json:"features"`
	Classes     int       `json:"classes"`
	TrainRows   int       `json:"train_rows"`
	TestRows    int       `json:"test_rows"`
	Accuracy    *float64  `json:"accuracy"`
	Seed        int64     `json:"seed"`
	Estimators  int       `json:"estimators"`
	SizeBytes   int64     `json:"size_bytes"`
	TrainedAt   time.Time `json:"trained_at"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// RecordCommand carries the data needed to record a run.
// A nil Accuracy means no rows were held out.
type RecordCommand struct {
	ID          uuid.UUID
	ArtifactKey string
	DatasetPath string
	Label       string
	Features    int
	Classes     int
	TrainRows   int
	TestRows    int
	Accuracy    *float64
	Seed        int64
	Estimators  int
	SizeBytes   int64
	TrainedAt   time.Time
}

// CommandFromArtifact describes a saved artifact as a RecordCommand.
func CommandFromArtifact(a *artifact.Artifact, key string, size int64) RecordCommand {
	cmd := RecordCommand{
		ID:          a.ID,
		ArtifactKey: key,
		DatasetPath: a.DatasetPath,
		Label:       a.Label,
		Features:    a.Features(),
		Classes:     len(a.Classes),
		TrainRows:   a.Metrics.TrainRows,
		TestRows:    a.Metrics.TestRows,
		Seed:        a.Seed,
		SizeBytes:   size,
		TrainedAt:   a.TrainedAt,
	}
	if a.Forest != nil {
		cmd.Estimators = len(a.Forest.Trees)
	}
	if a.Metrics.TestRows > 0 {
		acc := a.Metrics.Accuracy
		cmd.Accuracy = &acc
	}
	return cmd
}
