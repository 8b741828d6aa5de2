// Package config assembles prognosis settings from config.toml, an optional
// config.<env>.toml overlay and PROGNOSIS_* environment variables, in that
// order of precedence from lowest to highest.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/prognosis/pkg/database"
	"github.com/JaimeStill/prognosis/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvPrognosisEnv             = "PROGNOSIS_ENV"
	EnvPrognosisShutdownTimeout = "PROGNOSIS_SHUTDOWN_TIMEOUT"
	EnvPrognosisVersion         = "PROGNOSIS_VERSION"
	EnvPrognosisLogLevel        = "PROGNOSIS_LOG_LEVEL"
)

var databaseEnv = &database.Env{
	Enabled:         "PROGNOSIS_DB_ENABLED",
	Host:            "PROGNOSIS_DB_HOST",
	Port:            "PROGNOSIS_DB_PORT",
	Name:            "PROGNOSIS_DB_NAME",
	User:            "PROGNOSIS_DB_USER",
	Password:        "PROGNOSIS_DB_PASSWORD",
	SSLMode:         "PROGNOSIS_DB_SSL_MODE",
	MaxOpenConns:    "PROGNOSIS_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "PROGNOSIS_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "PROGNOSIS_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "PROGNOSIS_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	Provider:         "PROGNOSIS_STORAGE_PROVIDER",
	Root:             "PROGNOSIS_STORAGE_ROOT",
	ContainerName:    "PROGNOSIS_STORAGE_CONTAINER_NAME",
	ConnectionString: "PROGNOSIS_STORAGE_CONNECTION_STRING",
	AccountURL:       "PROGNOSIS_STORAGE_ACCOUNT_URL",
}

// Config is shared by the server, the trainer and the migrator.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	API             APIConfig       `toml:"api"`
	Storage         storage.Config  `toml:"storage"`
	Database        database.Config `toml:"database"`
	Model           ModelConfig     `toml:"model"`
	ShutdownTimeout Duration        `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
	LogLevel        string          `toml:"log_level"`
}

// Env is the active overlay name, "local" unless PROGNOSIS_ENV says otherwise.
func (c *Config) Env() string {
	if env := os.Getenv(EnvPrognosisEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration bounds how long lifecycle shutdown hooks may run.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	return c.ShutdownTimeout.Std()
}

// Load builds the configuration from the working directory. Missing files
// are not errors; defaults and environment variables fill the gaps.
func Load() (*Config, error) {
	cfg, err := readFile(BaseConfigFile)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = &Config{}
	}

	if env := os.Getenv(EnvPrognosisEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		overlay, err := readFile(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		if overlay != nil {
			cfg.Merge(overlay)
		}
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}
	return cfg, nil
}

// Merge layers overlay onto c. Zero values in overlay leave c unchanged.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != 0 {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	if overlay.LogLevel != "" {
		c.LogLevel = overlay.LogLevel
	}
	c.Server.Merge(&overlay.Server)
	c.API.Merge(&overlay.API)
	c.Storage.Merge(&overlay.Storage)
	c.Database.Merge(&overlay.Database)
	c.Model.Merge(&overlay.Model)
}

func (c *Config) finalize() error {
	if err := c.finalizeRoot(); err != nil {
		return err
	}

	sections := []struct {
		name     string
		finalize func() error
	}{
		{"server", c.Server.Finalize},
		{"api", c.API.Finalize},
		{"storage", func() error { return c.Storage.Finalize(storageEnv) }},
		{"database", func() error { return c.Database.Finalize(databaseEnv) }},
		{"model", c.Model.Finalize},
	}
	for _, s := range sections {
		if err := s.finalize(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

func (c *Config) finalizeRoot() error {
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = Duration(30 * time.Second)
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	if v := os.Getenv(EnvPrognosisShutdownTimeout); v != "" {
		if err := c.ShutdownTimeout.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("invalid shutdown_timeout: %w", err)
		}
	}
	if v := os.Getenv(EnvPrognosisVersion); v != "" {
		c.Version = v
	}
	if v := os.Getenv(EnvPrognosisLogLevel); v != "" {
		c.LogLevel = v
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("invalid log_level: %q", c.LogLevel)
	}
}

// readFile parses path, returning nil without error when it does not exist.
func readFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}
