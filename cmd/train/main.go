// Command train fits the disease classifier on the configured dataset and
// stores the resulting artifact where the server loads it from.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/JaimeStill/prognosis/internal/config"
	"github.com/JaimeStill/prognosis/internal/infrastructure"
)

func main() {
	var (
		datasetPath = flag.String("dataset", "", "Training dataset CSV (overrides model.dataset_path)")
		key         = flag.String("key", "", "Artifact storage key (overrides model.artifact_key)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed: ", err)
	}
	if *datasetPath != "" {
		cfg.Model.DatasetPath = *datasetPath
	}
	if *key != "" {
		cfg.Model.ArtifactKey = *key
	}

	infra, err := infrastructure.New(cfg)
	if err != nil {
		log.Fatal("infrastructure init failed: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = run(ctx, cfg, infra)

	if shutdownErr := infra.Lifecycle.Shutdown(cfg.ShutdownTimeoutDuration()); shutdownErr != nil {
		infra.Logger.Error("shutdown failed", "error", shutdownErr)
	}
	if err != nil {
		infra.Logger.Error("training failed", "error", err)
		os.Exit(1)
	}
}
