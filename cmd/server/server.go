package main

import (
	"context"
	"fmt"
	"time"

	"github.com/JaimeStill/prognosis/internal/api"
	"github.com/JaimeStill/prognosis/internal/config"
	"github.com/JaimeStill/prognosis/internal/infrastructure"
	"github.com/JaimeStill/prognosis/pkg/formatting"
)

// Server owns the infrastructure and, once started, the HTTP listener.
// The model must load before any route is mounted, so modules are built in
// Start rather than NewServer.
type Server struct {
	cfg   *config.Config
	infra *infrastructure.Infrastructure
	http  *httpServer
}

func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	return &Server{
		cfg:   cfg,
		infra: infra,
	}, nil
}

func (s *Server) Start() error {
	s.infra.Logger.Info("starting service")

	if err := s.infra.Start(); err != nil {
		return err
	}
	if err := s.infra.Lifecycle.WaitForStartup(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(s.infra.Lifecycle.Context(), time.Minute)
	defer cancel()

	model, err := api.LoadModel(ctx, &s.cfg.Model, s.infra.Storage, s.infra.Logger)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	s.infra.Logger.Info(
		"model loaded",
		"key", model.Key,
		"size", formatting.FormatBytes(model.Size, 1),
		"id", model.Artifact.ID,
		"features", model.Artifact.Features(),
		"classes", len(model.Artifact.Classes),
	)

	modules, err := api.NewModules(s.cfg, s.infra, model)
	if err != nil {
		return err
	}

	router := buildRouter(s.infra)
	modules.Mount(router)

	s.http = newHTTPServer(&s.cfg.Server, router, s.infra.Logger)
	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	s.infra.Logger.Info(
		"server initialized",
		"addr", s.cfg.Server.Addr(),
		"modules", router.Prefixes(),
		"version", s.cfg.Version,
	)
	return nil
}

func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	return s.infra.Lifecycle.Shutdown(timeout)
}
