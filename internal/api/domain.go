package api

import (
	"github.com/JaimeStill/prognosis/internal/predictions"
	"github.com/JaimeStill/prognosis/internal/runs"
)

// Domain holds all domain systems served over HTTP. Runs is nil when the
// database is disabled.
type Domain struct {
	Predictions predictions.System
	Runs        runs.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	domain := &Domain{
		Predictions: predictions.New(runtime.Model, runtime.Logger),
	}

	if runtime.Database != nil {
		domain.Runs = runs.New(
			runtime.Database.Connection(),
			runtime.Logger,
			runtime.Pagination,
		)
	}

	return domain
}
