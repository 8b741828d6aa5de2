package api

import (
	"github.com/JaimeStill/prognosis/internal/artifact"
	"github.com/JaimeStill/prognosis/internal/config"
	"github.com/JaimeStill/prognosis/internal/infrastructure"
	"github.com/JaimeStill/prognosis/pkg/pagination"
)

// Runtime extends Infrastructure with the loaded model and API-specific
// configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Model        *artifact.Artifact
	ArtifactKey  string
	ArtifactSize int64
	Pagination   pagination.Config
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure, model *Model) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
		},
		Model:        model.Artifact,
		ArtifactKey:  model.Key,
		ArtifactSize: model.Size,
		Pagination:   cfg.API.Pagination,
	}
}
