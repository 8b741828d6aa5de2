package main

import (
	"context"
	"fmt"
	"time"

	"github.com/JaimeStill/prognosis/internal/artifact"
	"github.com/JaimeStill/prognosis/internal/config"
	"github.com/JaimeStill/prognosis/internal/infrastructure"
	"github.com/JaimeStill/prognosis/internal/runs"
	"github.com/JaimeStill/prognosis/internal/symptoms"
	"github.com/JaimeStill/prognosis/internal/training"
	"github.com/JaimeStill/prognosis/pkg/dataset"
	"github.com/JaimeStill/prognosis/pkg/formatting"
)

func run(ctx context.Context, cfg *config.Config, infra *infrastructure.Infrastructure) error {
	logger := infra.Logger.With("system", "train")

	if err := infra.Start(); err != nil {
		return err
	}
	if err := infra.Lifecycle.WaitForStartup(); err != nil {
		return err
	}

	ds, err := dataset.Load(cfg.Model.DatasetPath)
	if err != nil {
		return err
	}

	schema, label, err := symptoms.ResolveDataset(ds)
	if err != nil {
		return fmt.Errorf("dataset %s: %w", cfg.Model.DatasetPath, err)
	}

	opts := cfg.Model.Options()
	logger.Info(
		"training",
		"dataset", cfg.Model.DatasetPath,
		"rows", ds.Len(),
		"features", len(schema),
		"label", label,
		"estimators", opts.Estimators,
		"seed", opts.Seed,
		"test_ratio", opts.TestRatio,
	)

	start := time.Now()
	result, err := training.Train(ctx, ds, schema, label, opts)
	if err != nil {
		return err
	}

	a := result.Artifact
	a.DatasetPath = cfg.Model.DatasetPath

	logger.Info(
		"model trained",
		"id", a.ID,
		"classes", len(a.Classes),
		"train_rows", a.Metrics.TrainRows,
		"test_rows", a.Metrics.TestRows,
		"accuracy", a.Metrics.Accuracy,
		"duration", time.Since(start),
	)

	replacing, err := infra.Storage.Exists(ctx, cfg.Model.ArtifactKey)
	if err != nil {
		return err
	}
	if replacing {
		logger.Info("replacing existing artifact", "key", cfg.Model.ArtifactKey)
	}

	size, err := artifact.Save(ctx, infra.Storage, cfg.Model.ArtifactKey, a)
	if err != nil {
		return err
	}
	logger.Info("artifact saved", "key", cfg.Model.ArtifactKey, "size", formatting.FormatBytes(size, 1))

	if infra.Database == nil {
		return nil
	}

	registry := runs.New(infra.Database.Connection(), infra.Logger, cfg.API.Pagination)
	if _, err := registry.Record(ctx, runs.CommandFromArtifact(a, cfg.Model.ArtifactKey, size)); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}
