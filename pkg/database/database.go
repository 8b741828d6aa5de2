// Package database opens the optional PostgreSQL pool behind the
// training-run registry.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/JaimeStill/prognosis/pkg/lifecycle"
)

// System is an open pool tied to the process lifecycle.
type System interface {
	Connection() *sql.DB
	// Ping checks connectivity, bounded by the configured conn_timeout.
	Ping(ctx context.Context) error
	// Start pings on startup and closes the pool on shutdown.
	Start(lc *lifecycle.Coordinator) error
	// Close releases the pool for callers that never call Start.
	Close() error
}

type pool struct {
	db      *sql.DB
	timeout time.Duration
	logger  *slog.Logger
}

// New configures a pgx-backed pool. No connection is made until the first
// query or Ping. A disabled config yields ErrDisabled.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}

	db, err := sql.Open("pgx", cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	return &pool{
		db:      db,
		timeout: cfg.ConnTimeoutDuration(),
		logger:  logger.With("system", "database", "host", cfg.Host, "name", cfg.Name),
	}, nil
}

func (p *pool) Connection() *sql.DB { return p.db }

func (p *pool) Close() error { return p.db.Close() }

func (p *pool) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrNotReady, err)
	}
	return nil
}

func (p *pool) Start(lc *lifecycle.Coordinator) error {
	lc.OnStartup(func() error {
		start := time.Now()
		if err := p.Ping(lc.Context()); err != nil {
			return err
		}
		p.logger.Info("connected", "elapsed", time.Since(start))
		return nil
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		if err := p.Close(); err != nil {
			p.logger.Error("close failed", "error", err)
			return
		}
		p.logger.Info("closed")
	})

	return nil
}
