// Package api assembles the prediction module and the API module from the
// domain systems and registers their routes.
package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/prognosis/internal/config"
	"github.com/JaimeStill/prognosis/internal/infrastructure"
	"github.com/JaimeStill/prognosis/pkg/middleware"
	"github.com/JaimeStill/prognosis/pkg/module"
	"github.com/JaimeStill/prognosis/pkg/routes"
)

// Modules are the HTTP modules served by prognosis: Predict at
// config.PredictPath and API at the configured base path.
type Modules struct {
	Predict *module.Module
	API     *module.Module
}

// NewModules creates both modules around the loaded model.
func NewModules(cfg *config.Config, infra *infrastructure.Infrastructure, model *Model) (*Modules, error) {
	if model == nil || model.Artifact == nil {
		return nil, fmt.Errorf("api: model is required")
	}

	runtime := NewRuntime(cfg, infra, model)
	domain := NewDomain(runtime)

	predictGroup := domain.Predictions.Handler(cfg.API.MaxRequestSizeBytes()).Routes()
	groups := apiGroups(domain, runtime)

	spec, err := buildSpec(cfg, predictGroup, groups)
	if err != nil {
		return nil, fmt.Errorf("build openapi spec: %w", err)
	}

	predictMux := http.NewServeMux()
	routes.Register(predictMux, predictGroup)

	apiMux := http.NewServeMux()
	registerRoutes(apiMux, groups, spec)

	return &Modules{
		Predict: newModule(config.PredictPath, predictMux, cfg, infra),
		API:     newModule(cfg.API.BasePath, apiMux, cfg, infra),
	}, nil
}

// Mount registers both modules on router.
func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.Predict)
	router.Mount(m.API)
}

func newModule(prefix string, mux *http.ServeMux, cfg *config.Config, infra *infrastructure.Infrastructure) *module.Module {
	m := module.New(prefix, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(infra.Logger.With("module", prefix[1:])))
	return m
}
