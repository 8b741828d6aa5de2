// Package training fits the disease classifier from a symptom dataset and
// produces a predict-capable model artifact.
package training

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/prognosis/internal/artifact"
	"github.com/JaimeStill/prognosis/internal/symptoms"
	"github.com/JaimeStill/prognosis/pkg/dataset"
	"github.com/JaimeStill/prognosis/pkg/forest"
)

// Result is a trained artifact plus the split it was trained on.
type Result struct {
	Artifact *artifact.Artifact
	Split    Split
}

// Evaluate returns the artifact's accuracy on the held-out rows.
func (r *Result) Evaluate() (float64, error) {
	if len(r.Split.XTest) == 0 {
		return 0, ErrNoHeldOutRows
	}

	pred, err := r.Artifact.Forest.Predict(r.Split.XTest)
	if err != nil {
		return 0, fmt.Errorf("evaluate: %w", err)
	}
	return forest.Accuracy(r.Split.YTest, pred), nil
}

// Train encodes ds in schema order, splits it, and fits a random forest.
// Identical inputs and options produce an artifact with identical predictions.
func Train(ctx context.Context, ds *dataset.Dataset, schema symptoms.Schema, label string, opts Options) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if ds.Len() == 0 {
		return nil, ErrNoRows
	}

	X, err := features(ds, schema)
	if err != nil {
		return nil, err
	}

	labels, err := ds.Column(label)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingColumn, err)
	}
	classes, y := encodeLabels(labels)
	if len(classes) < 2 {
		return nil, fmt.Errorf("%w: found %d", ErrSingleClass, len(classes))
	}

	split := TrainTestSplit(X, y, opts.TestRatio, opts.Seed)
	if len(split.XTrain) == 0 {
		return nil, fmt.Errorf("%w: training split is empty", ErrNoRows)
	}

	f := forest.New(
		forest.WithNEstimators(opts.Estimators),
		forest.WithSeed(opts.Seed),
		forest.WithWorkers(opts.Workers),
		forest.WithForestMaxDepth(opts.MaxDepth),
		forest.WithForestMaxFeatures(opts.MaxFeatures),
		forest.WithForestMinSamplesSplit(opts.MinSamplesSplit),
		forest.WithForestMinSamplesLeaf(opts.MinSamplesLeaf),
		forest.WithCriterion(opts.Criterion),
		forest.WithBootstrap(opts.Bootstrap),
		forest.WithMinImpurityDecrease(opts.MinImpurityDecrease),
	)
	if err := f.Fit(ctx, split.XTrain, split.YTrain); err != nil {
		return nil, fmt.Errorf("fit classifier: %w", err)
	}

	result := &Result{
		Artifact: &artifact.Artifact{
			ID:        uuid.New(),
			TrainedAt: time.Now().UTC(),
			Label:     label,
			Schema:    slices.Clone(schema),
			Classes:   classes,
			Seed:      opts.Seed,
			Forest:    f,
			Metrics: artifact.Metrics{
				TrainRows: len(split.XTrain),
				TestRows:  len(split.XTest),
			},
		},
		Split: split,
	}

	if acc, err := result.Evaluate(); err == nil {
		result.Artifact.Metrics.Accuracy = acc
	}

	return result, nil
}

func features(ds *dataset.Dataset, schema symptoms.Schema) ([][]float64, error) {
	cols := make([]int, len(schema))
	for i, name := range schema {
		idx := ds.Index(name)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
		cols[i] = idx
	}

	X := make([][]float64, ds.Len())
	for r, row := range ds.Rows {
		x := make([]float64, len(cols))
		for j, c := range cols {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[c]), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %s: %q", ErrInvalidValue, r+1, schema[j], row[c])
			}
			x[j] = v
		}
		X[r] = x
	}
	return X, nil
}

// encodeLabels maps label strings onto indices of their sorted distinct values.
func encodeLabels(labels []string) ([]string, []int) {
	classes := slices.Clone(labels)
	slices.Sort(classes)
	classes = slices.Compact(classes)

	index := make(map[string]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}

	y := make([]int, len(labels))
	for i, l := range labels {
		y[i] = index[l]
	}
	return classes, y
}
