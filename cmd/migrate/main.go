// Command migrate applies the training_runs schema to the registry database.
//
//	migrate [-dsn URL] up | down | steps N | version | force V
package main

import (
	"embed"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"

	"github.com/JaimeStill/prognosis/internal/config"
)

//go:embed migrations/*.sql
var migrations embed.FS

const envDSN = "PROGNOSIS_DB_DSN"

var errUsage = errors.New("usage: migrate [-dsn URL] up | down | steps N | version | force V")

type command struct {
	name string
	n    int
}

func parseCommand(args []string) (command, error) {
	if len(args) == 0 {
		return command{}, errUsage
	}

	cmd := command{name: args[0]}
	switch cmd.name {
	case "up", "down", "version":
		if len(args) != 1 {
			return command{}, errUsage
		}
	case "steps", "force":
		if len(args) != 2 {
			return command{}, errUsage
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return command{}, fmt.Errorf("%s: %w", cmd.name, err)
		}
		if cmd.name == "steps" && n == 0 {
			return command{}, fmt.Errorf("steps: must not be zero")
		}
		cmd.n = n
	default:
		return command{}, errUsage
	}
	return cmd, nil
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	dsn := flag.String("dsn", "", "database URL (default "+envDSN+" or the [database] config)")
	flag.Parse()

	cmd, err := parseCommand(flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := run(cmd, *dsn, logger); err != nil {
		logger.Error("migration failed", "command", cmd.name, "error", err)
		os.Exit(1)
	}
}

func run(cmd command, dsn string, logger *slog.Logger) error {
	if dsn == "" {
		var err error
		if dsn, err = resolveDSN(); err != nil {
			return err
		}
	}

	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, dsn)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer m.Close()

	switch cmd.name {
	case "version":
		v, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			logger.Info("no migrations applied")
			return nil
		}
		if err != nil {
			return err
		}
		logger.Info("current version", "version", v, "dirty", dirty)
		return nil
	case "force":
		if err := m.Force(cmd.n); err != nil {
			return err
		}
		logger.Info("version forced", "version", cmd.n)
		return nil
	}

	switch cmd.name {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "steps":
		err = m.Steps(cmd.n)
	}
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("already current")
		return nil
	}
	if err != nil {
		return err
	}
	logger.Info("migrations applied", "command", cmd.name, "steps", cmd.n)
	return nil
}

// resolveDSN prefers PROGNOSIS_DB_DSN, then the [database] config.
func resolveDSN() (string, error) {
	if dsn := os.Getenv(envDSN); dsn != "" {
		return dsn, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("load config: %w", err)
	}
	return cfg.Database.URL(), nil
}
