package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/JaimeStill/prognosis/internal/training"
	"github.com/JaimeStill/prognosis/pkg/forest"
)

// PredictPath is the fixed route of the prediction endpoint.
const PredictPath = "/predict"

const (
	EnvModelDatasetPath   = "PROGNOSIS_MODEL_DATASET_PATH"
	EnvModelArtifactKey   = "PROGNOSIS_MODEL_ARTIFACT_KEY"
	EnvModelTestRatio     = "PROGNOSIS_MODEL_TEST_RATIO"
	EnvModelSeed          = "PROGNOSIS_MODEL_SEED"
	EnvModelEstimators    = "PROGNOSIS_MODEL_ESTIMATORS"
	EnvModelMaxDepth      = "PROGNOSIS_MODEL_MAX_DEPTH"
	EnvModelMaxFeatures   = "PROGNOSIS_MODEL_MAX_FEATURES"
	EnvModelWorkers       = "PROGNOSIS_MODEL_WORKERS"
	EnvModelVerifyDataset = "PROGNOSIS_MODEL_VERIFY_DATASET"
	EnvModelCriterion     = "PROGNOSIS_MODEL_CRITERION"
	EnvModelBootstrap     = "PROGNOSIS_MODEL_BOOTSTRAP"
	EnvModelMinImpurity   = "PROGNOSIS_MODEL_MIN_IMPURITY_DECREASE"
)

// ModelConfig locates the training dataset and model artifact and holds the
// classifier hyperparameters used by the trainer.
type ModelConfig struct {
	DatasetPath string   `toml:"dataset_path"`
	ArtifactKey string   `toml:"artifact_key"`
	TestRatio   *float64 `toml:"test_ratio"`
	Seed        *int64   `toml:"seed"`
	Estimators  int      `toml:"estimators"`
	MaxDepth    int      `toml:"max_depth"`
	MaxFeatures int      `toml:"max_features"`
	Workers     int      `toml:"workers"`
	Criterion   string   `toml:"criterion"`
	Bootstrap   *bool    `toml:"bootstrap"`

	MinImpurityDecrease float64 `toml:"min_impurity_decrease"`

	// VerifyDataset compares the dataset schema with the artifact schema at
	// server startup when the dataset file is present.
	VerifyDataset *bool `toml:"verify_dataset"`
}

// Options converts the config into trainer options.
func (c *ModelConfig) Options() training.Options {
	opts := training.DefaultOptions()
	opts.TestRatio = *c.TestRatio
	opts.Seed = *c.Seed
	opts.Estimators = c.Estimators
	opts.MaxDepth = c.MaxDepth
	opts.MaxFeatures = c.MaxFeatures
	opts.Workers = c.Workers
	opts.Criterion = c.Criterion
	opts.Bootstrap = *c.Bootstrap
	opts.MinImpurityDecrease = c.MinImpurityDecrease
	return opts
}

// Verify reports whether the serving-time schema check is enabled.
func (c *ModelConfig) Verify() bool {
	return c.VerifyDataset == nil || *c.VerifyDataset
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ModelConfig) Finalize() error {
	c.loadDefaults()
	if err := c.loadEnv(); err != nil {
		return err
	}
	return c.validate()
}

// Merge overwrites fields set in overlay. Pointer fields apply when non-nil,
// so an overlay can set a zero seed or ratio explicitly.
func (c *ModelConfig) Merge(overlay *ModelConfig) {
	if overlay.DatasetPath != "" {
		c.DatasetPath = overlay.DatasetPath
	}
	if overlay.ArtifactKey != "" {
		c.ArtifactKey = overlay.ArtifactKey
	}
	if overlay.TestRatio != nil {
		c.TestRatio = overlay.TestRatio
	}
	if overlay.Seed != nil {
		c.Seed = overlay.Seed
	}
	if overlay.Estimators != 0 {
		c.Estimators = overlay.Estimators
	}
	if overlay.MaxDepth != 0 {
		c.MaxDepth = overlay.MaxDepth
	}
	if overlay.MaxFeatures != 0 {
		c.MaxFeatures = overlay.MaxFeatures
	}
	if overlay.Workers != 0 {
		c.Workers = overlay.Workers
	}
	if overlay.VerifyDataset != nil {
		c.VerifyDataset = overlay.VerifyDataset
	}
	if overlay.Criterion != "" {
		c.Criterion = overlay.Criterion
	}
	if overlay.Bootstrap != nil {
		c.Bootstrap = overlay.Bootstrap
	}
	if overlay.MinImpurityDecrease != 0 {
		c.MinImpurityDecrease = overlay.MinImpurityDecrease
	}
}

func (c *ModelConfig) loadDefaults() {
	defaults := training.DefaultOptions()

	if c.DatasetPath == "" {
		c.DatasetPath = "Training.csv"
	}
	if c.ArtifactKey == "" {
		c.ArtifactKey = "disease_model.gob"
	}
	if c.TestRatio == nil {
		c.TestRatio = &defaults.TestRatio
	}
	if c.Seed == nil {
		c.Seed = &defaults.Seed
	}
	if c.Estimators == 0 {
		c.Estimators = defaults.Estimators
	}
	if c.VerifyDataset == nil {
		verify := true
		c.VerifyDataset = &verify
	}
	if c.Criterion == "" {
		c.Criterion = defaults.Criterion
	}
	if c.Bootstrap == nil {
		c.Bootstrap = &defaults.Bootstrap
	}
}

func (c *ModelConfig) loadEnv() error {
	if v := os.Getenv(EnvModelDatasetPath); v != "" {
		c.DatasetPath = v
	}
	if v := os.Getenv(EnvModelArtifactKey); v != "" {
		c.ArtifactKey = v
	}
	if v := os.Getenv(EnvModelCriterion); v != "" {
		c.Criterion = v
	}

	for _, e := range []struct {
		name string
		dst  *int
	}{
		{EnvModelEstimators, &c.Estimators},
		{EnvModelMaxDepth, &c.MaxDepth},
		{EnvModelMaxFeatures, &c.MaxFeatures},
		{EnvModelWorkers, &c.Workers},
	} {
		if v := os.Getenv(e.name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", e.name, err)
			}
			*e.dst = n
		}
	}

	for _, e := range []struct {
		name string
		dst  *float64
	}{
		{EnvModelTestRatio, c.TestRatio},
		{EnvModelMinImpurity, &c.MinImpurityDecrease},
	} {
		if v := os.Getenv(e.name); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("%s: %w", e.name, err)
			}
			*e.dst = f
		}
	}

	for _, e := range []struct {
		name string
		dst  **bool
	}{
		{EnvModelVerifyDataset, &c.VerifyDataset},
		{EnvModelBootstrap, &c.Bootstrap},
	} {
		if v := os.Getenv(e.name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s: %w", e.name, err)
			}
			*e.dst = &b
		}
	}

	if v := os.Getenv(EnvModelSeed); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvModelSeed, err)
		}
		c.Seed = &seed
	}
	return nil
}

func (c *ModelConfig) validate() error {
	if c.ArtifactKey == "" {
		return fmt.Errorf("artifact_key required")
	}
	if r := *c.TestRatio; r < 0 || r >= 1 {
		return fmt.Errorf("test_ratio must be in [0, 1): %v", r)
	}
	if c.Estimators < 1 {
		return fmt.Errorf("estimators must be positive: %d", c.Estimators)
	}
	if c.MaxDepth < 0 || c.MaxFeatures < 0 || c.Workers < 0 || c.MinImpurityDecrease < 0 {
		return fmt.Errorf("max_depth, max_features, workers, and min_impurity_decrease cannot be negative")
	}
	if c.Criterion != forest.CriterionGini && c.Criterion != forest.CriterionEntropy {
		return fmt.Errorf("criterion must be %q or %q: %q", forest.CriterionGini, forest.CriterionEntropy, c.Criterion)
	}
	return nil
}
