package api

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/prognosis/internal/config"
	"github.com/JaimeStill/prognosis/pkg/handlers"
	"github.com/JaimeStill/prognosis/pkg/openapi"
	"github.com/JaimeStill/prognosis/pkg/routes"
)

// ErrRunsDisabled is returned by run endpoints when no database is configured.
var ErrRunsDisabled = errors.New("training run registry is disabled")

func apiGroups(domain *Domain, runtime *Runtime) []routes.Group {
	groups := []routes.Group{
		newModelHandler(runtime).routes(runtime.Model.Symptoms()),
	}

	if domain.Runs != nil {
		groups = append(groups, domain.Runs.Handler().Routes())
	} else {
		groups = append(groups, disabledRuns(runtime))
	}

	return groups
}

func disabledRuns(runtime *Runtime) routes.Group {
	logger := runtime.Logger.With("handler", "runs")
	unavailable := func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondError(w, logger, http.StatusServiceUnavailable, ErrRunsDisabled)
	}

	return routes.Group{
		Prefix: "/runs",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: unavailable},
			{Method: "GET", Pattern: "/{id}", Handler: unavailable},
			{Method: "POST", Pattern: "/search", Handler: unavailable},
		},
	}
}

// buildSpec documents the prediction endpoint and every API group.
func buildSpec(cfg *config.Config, predict routes.Group, groups []routes.Group) ([]byte, error) {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	cfg.API.OpenAPI.Apply(spec)

	routes.Describe(spec, config.PredictPath, predict)
	routes.Describe(spec, cfg.API.BasePath, groups...)

	return openapi.MarshalJSON(spec)
}

func registerRoutes(mux *http.ServeMux, groups []routes.Group, spec []byte) {
	routes.Register(mux, groups...)
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(spec))
}
