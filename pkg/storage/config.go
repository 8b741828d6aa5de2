package storage

import (
	"fmt"
	"os"
)

// Storage providers.
const (
	ProviderFilesystem = "filesystem"
	ProviderAzure      = "azure"
)

// Config holds blob storage parameters. The filesystem provider uses Root;
// the azure provider uses ContainerName and either ConnectionString or
// AccountURL (authenticated with the default Azure credential chain).
type Config struct {
	Provider         string `toml:"provider"`
	Root             string `toml:"root"`
	ContainerName    string `toml:"container_name"`
	ConnectionString string `toml:"connection_string"`
	AccountURL       string `toml:"account_url"`
}

// Env names the environment variables that override Config fields.
type Env struct {
	Provider         string
	Root             string
	ContainerName    string
	ConnectionString string
	AccountURL       string
}

func (c *Config) fields() []*string {
	return []*string{&c.Provider, &c.Root, &c.ContainerName, &c.ConnectionString, &c.AccountURL}
}

func (e *Env) names() []string {
	return []string{e.Provider, e.Root, e.ContainerName, e.ConnectionString, e.AccountURL}
}

// Finalize fills defaults, applies env overrides and checks that the chosen
// provider has what it needs.
func (c *Config) Finalize(env *Env) error {
	if c.Provider == "" {
		c.Provider = ProviderFilesystem
	}
	if c.Root == "" {
		c.Root = "."
	}
	if c.ContainerName == "" {
		c.ContainerName = "models"
	}

	if env != nil {
		fields := c.fields()
		for i, name := range env.names() {
			if name == "" {
				continue
			}
			if v := os.Getenv(name); v != "" {
				*fields[i] = v
			}
		}
	}

	switch c.Provider {
	case ProviderFilesystem:
		if c.Root == "" {
			return fmt.Errorf("root required")
		}
	case ProviderAzure:
		if c.ContainerName == "" {
			return fmt.Errorf("container_name required")
		}
		if c.ConnectionString == "" && c.AccountURL == "" {
			return fmt.Errorf("connection_string or account_url required")
		}
	default:
		return fmt.Errorf("unknown provider: %q", c.Provider)
	}
	return nil
}

// Merge copies every non-empty overlay field onto c.
func (c *Config) Merge(overlay *Config) {
	dst := c.fields()
	for i, v := range overlay.fields() {
		if *v != "" {
			*dst[i] = *v
		}
	}
}
