package runs

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/JaimeStill/prognosis/pkg/query"
	"github.com/JaimeStill/prognosis/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "training_runs", "r").
	Project("id", "ID").
	Project("artifact_key", "ArtifactKey").
	Project("dataset_path", "DatasetPath").
	Project("label", "Label").
	Project("features", "Features").
	Project("classes", "Classes").
	Project("train_rows", "TrainRows").
	Project("test_rows", "TestRows").
	Project("accuracy", "Accuracy").
	Project("seed", "Seed").
	Project("estimators", "Estimators").
	Project("size_bytes", "SizeBytes").
	Project("trained_at", "TrainedAt").
	Project("recorded_at", "RecordedAt")

var defaultSort = query.SortField{
	Field:      "TrainedAt",
	Descending: true,
}

var dbErrors = repository.Errors{
	NotFound:  ErrNotFound,
	Duplicate: ErrDuplicate,
	Invalid:   ErrInvalid,
}

// Filters narrows run queries. Nil fields are ignored. Label and ArtifactKey
// match exactly; DatasetPath matches case-insensitively by substring.
// MinAccuracy excludes runs without held-out rows.
type Filters struct {
	Label         *string    `json:"label,omitempty"`
	ArtifactKey   *string    `json:"artifact_key,omitempty"`
	DatasetPath   *string    `json:"dataset_path,omitempty"`
	MinAccuracy   *float64   `json:"min_accuracy,omitempty"`
	TrainedAfter  *time.Time `json:"trained_after,omitempty"`
	TrainedBefore *time.Time `json:"trained_before,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Label", f.Label).
		WhereEquals("ArtifactKey", f.ArtifactKey).
		WhereContains("DatasetPath", f.DatasetPath).
		WhereAtLeast("Accuracy", f.MinAccuracy).
		WhereAtLeast("TrainedAt", f.TrainedAfter).
		WhereAtMost("TrainedAt", f.TrainedBefore)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Timestamps are RFC 3339.
func FiltersFromQuery(values url.Values) (Filters, error) {
	var f Filters

	if l := values.Get("label"); l != "" {
		f.Label = &l
	}
	if k := values.Get("artifact_key"); k != "" {
		f.ArtifactKey = &k
	}
	if d := values.Get("dataset_path"); d != "" {
		f.DatasetPath = &d
	}
	if v := values.Get("min_accuracy"); v != "" {
		acc, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return f, fmt.Errorf("%w: min_accuracy %q", ErrInvalid, v)
		}
		f.MinAccuracy = &acc
	}

	var err error
	if f.TrainedAfter, err = parseTime(values, "trained_after"); err != nil {
		return f, err
	}
	if f.TrainedBefore, err = parseTime(values, "trained_before"); err != nil {
		return f, err
	}

	return f, nil
}

func parseTime(values url.Values, key string) (*time.Time, error) {
	v := values.Get(key)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q", ErrInvalid, key, v)
	}
	return &t, nil
}

func scanRun(s repository.Scanner) (Run, error) {
	var r Run
	err := s.Scan(
		&r.ID,
		&r.ArtifactKey,
		&r.DatasetPath,
		&r.Label,
		&r.Features,
		&r.Classes,
		&r.TrainRows,
		&r.TestRows,
		&r.Accuracy,
		&r.Seed,
		&r.Estimators,
		&r.SizeBytes,
		&r.TrainedAt,
		&r.RecordedAt,
	)
	return r, err
}
