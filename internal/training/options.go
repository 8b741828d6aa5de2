package training

import (
	"fmt"

	"github.com/JaimeStill/prognosis/pkg/forest"
)

// Options controls the split and the classifier hyperparameters.
type Options struct {
	TestRatio       float64
	Seed            int64
	Estimators      int
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	MaxFeatures     int
	Workers         int
	Criterion       string
	Bootstrap       bool

	MinImpurityDecrease float64
}

// DefaultOptions returns an 80/20 split, seed 42, and 100 bootstrapped gini trees.
func DefaultOptions() Options {
	return Options{
		TestRatio:       0.2,
		Seed:            42,
		Estimators:      100,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Criterion:       forest.CriterionGini,
		Bootstrap:       true,
	}
}

func (o Options) validate() error {
	if o.TestRatio < 0 || o.TestRatio >= 1 {
		return fmt.Errorf("%w: test ratio %v outside [0, 1)", ErrInvalidOptions, o.TestRatio)
	}
	if o.Estimators < 1 {
		return fmt.Errorf("%w: estimators must be positive, got %d", ErrInvalidOptions, o.Estimators)
	}
	if o.MaxDepth < 0 || o.MaxFeatures < 0 || o.Workers < 0 || o.MinImpurityDecrease < 0 {
		return fmt.Errorf("%w: negative hyperparameter", ErrInvalidOptions)
	}
	if o.Criterion != forest.CriterionGini && o.Criterion != forest.CriterionEntropy {
		return fmt.Errorf("%w: criterion %q", ErrInvalidOptions, o.Criterion)
	}
	return nil
}
