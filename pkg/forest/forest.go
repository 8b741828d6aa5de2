// Package forest implements a seeded random forest classifier.
//
// Each tree draws its bootstrap sample and feature order from its own
// source seeded with RandomState plus the tree index, so a fit is
// reproducible regardless of how trees are scheduled across workers.
package forest

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Split criteria.
const (
	CriterionGini    = "gini"
	CriterionEntropy = "entropy"
)

// Forest is a bagged ensemble of CART trees. Predictions average the
// per-tree class probabilities.
type Forest struct {
	NEstimators     int
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	MaxFeatures     int // 0 => sqrt(number of features)
	Criterion       string
	Bootstrap       bool
	RandomState     int64
	Workers         int

	MinImpurityDecrease float64

	Features int
	Classes  int
	Trees    []*Tree
}

// Option configures a Forest.
type Option func(*Forest)

func WithNEstimators(n int) Option       { return func(f *Forest) { f.NEstimators = n } }
func WithBootstrap(b bool) Option        { return func(f *Forest) { f.Bootstrap = b } }
func WithSeed(seed int64) Option         { return func(f *Forest) { f.RandomState = seed } }
func WithWorkers(n int) Option           { return func(f *Forest) { f.Workers = n } }
func WithForestMaxDepth(d int) Option    { return func(f *Forest) { f.MaxDepth = d } }
func WithForestMaxFeatures(k int) Option { return func(f *Forest) { f.MaxFeatures = k } }
func WithForestMinSamplesSplit(n int) Option {
	return func(f *Forest) { f.MinSamplesSplit = n }
}
func WithForestMinSamplesLeaf(n int) Option {
	return func(f *Forest) { f.MinSamplesLeaf = n }
}
func WithCriterion(c string) Option { return func(f *Forest) { f.Criterion = c } }
func WithMinImpurityDecrease(v float64) Option {
	return func(f *Forest) { f.MinImpurityDecrease = v }
}

// New initializes a forest with 100 bootstrapped gini trees and seed 42.
func New(opts ...Option) *Forest {
	f := &Forest{
		NEstimators:     100,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Criterion:       CriterionGini,
		Bootstrap:       true,
		RandomState:     42,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Fit trains every tree of the forest. Trees are built concurrently with at
// most Workers goroutines (GOMAXPROCS when unset).
func (f *Forest) Fit(ctx context.Context, X [][]float64, y []int) error {
	classes, err := validate(X, y)
	if err != nil {
		return err
	}
	if f.NEstimators < 1 {
		return fmt.Errorf("forest: n_estimators must be positive, got %d", f.NEstimators)
	}
	switch f.Criterion {
	case CriterionGini, CriterionEntropy:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCriterion, f.Criterion)
	}

	n := len(X)
	p := len(X[0])
	maxFeatures := f.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = max(int(math.Sqrt(float64(p))), 1)
	}

	trees := make([]*Tree, f.NEstimators)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.workerCount())

	for i := range trees {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			seed := f.RandomState + int64(i)
			rnd := rand.New(rand.NewSource(seed))

			sample := make([]int, n)
			for j := range sample {
				if f.Bootstrap {
					sample[j] = rnd.Intn(n)
				} else {
					sample[j] = j
				}
			}

			tree := &Tree{
				MaxDepth:            f.MaxDepth,
				MinSamplesSplit:     f.MinSamplesSplit,
				MinSamplesLeaf:      f.MinSamplesLeaf,
				Criterion:           f.Criterion,
				MaxFeatures:         maxFeatures,
				MinImpurityDecrease: f.MinImpurityDecrease,
				RandomState:         rnd.Int63(),
			}
			if err := tree.fitSample(X, y, sample, classes); err != nil {
				return fmt.Errorf("fit tree %d: %w", i, err)
			}

			trees[i] = tree
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	f.Features = p
	f.Classes = classes
	f.Trees = trees
	return nil
}

// Validate checks that a fitted or decoded forest can be walked for every
// input of width Features without leaving its node slices.
func (f *Forest) Validate() error {
	if len(f.Trees) == 0 {
		return ErrNotFitted
	}
	if f.Features < 1 || f.Classes < 1 {
		return fmt.Errorf("%w: %d features, %d classes", ErrInvalidModel, f.Features, f.Classes)
	}
	for i, t := range f.Trees {
		if t == nil {
			return fmt.Errorf("%w: tree %d is nil", ErrInvalidModel, i)
		}
		if err := t.check(f.Features, f.Classes); err != nil {
			return fmt.Errorf("%w: tree %d: %w", ErrInvalidModel, i, err)
		}
	}
	return nil
}

// PredictProba returns the mean class probability across trees for each row.
func (f *Forest) PredictProba(X [][]float64) ([][]float64, error) {
	if len(f.Trees) == 0 {
		return nil, ErrNotFitted
	}

	out := make([][]float64, len(X))
	for i, x := range X {
		if len(x) != f.Features {
			return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(x), f.Features)
		}

		acc := make([]float64, f.Classes)
		for _, t := range f.Trees {
			leaf, err := t.leaf(x)
			if err != nil {
				return nil, err
			}
			total := 0
			for _, c := range leaf.Counts {
				total += c
			}
			if total == 0 {
				continue
			}
			for c, cnt := range leaf.Counts {
				acc[c] += float64(cnt) / float64(total)
			}
		}

		for c := range acc {
			acc[c] /= float64(len(f.Trees))
		}
		out[i] = acc
	}
	return out, nil
}

// Predict returns the most probable class for each row. Ties resolve to the
// lowest class index.
func (f *Forest) Predict(X [][]float64) ([]int, error) {
	probas, err := f.PredictProba(X)
	if err != nil {
		return nil, err
	}

	out := make([]int, len(probas))
	for i, p := range probas {
		out[i] = argmax(p)
	}
	return out, nil
}

func (f *Forest) workerCount() int {
	if f.Workers > 0 {
		return f.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Accuracy returns the fraction of positions where yPred equals yTrue.
func Accuracy(yTrue, yPred []int) float64 {
	if len(yTrue) == 0 || len(yTrue) != len(yPred) {
		return 0
	}
	c := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			c++
		}
	}
	return float64(c) / float64(len(yTrue))
}
