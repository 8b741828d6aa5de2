package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/JaimeStill/prognosis/pkg/formatting"
	"github.com/JaimeStill/prognosis/pkg/middleware"
	"github.com/JaimeStill/prognosis/pkg/openapi"
	"github.com/JaimeStill/prognosis/pkg/pagination"
)

const (
	EnvAPIBasePath       = "PROGNOSIS_API_BASE_PATH"
	EnvAPIMaxRequestSize = "PROGNOSIS_API_MAX_REQUEST_SIZE"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "PROGNOSIS_CORS_ENABLED",
	Origins:          "PROGNOSIS_CORS_ORIGINS",
	AllowedMethods:   "PROGNOSIS_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "PROGNOSIS_CORS_ALLOWED_HEADERS",
	AllowCredentials: "PROGNOSIS_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "PROGNOSIS_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "PROGNOSIS_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "PROGNOSIS_PAGINATION_MAX_PAGE_SIZE",
}

var openAPIEnv = &openapi.ConfigEnv{
	Title:       "PROGNOSIS_OPENAPI_TITLE",
	Description: "PROGNOSIS_OPENAPI_DESCRIPTION",
	Servers:     "PROGNOSIS_OPENAPI_SERVERS",
}

// APIConfig holds routing, request limits, CORS, pagination, and OpenAPI settings.
type APIConfig struct {
	BasePath       string                `toml:"base_path"`
	MaxRequestSize string                `toml:"max_request_size"`
	CORS           middleware.CORSConfig `toml:"cors"`
	Pagination     pagination.Config     `toml:"pagination"`
	OpenAPI        openapi.Config        `toml:"openapi"`
}

// MaxRequestSizeBytes returns MaxRequestSize in bytes. Finalize guarantees it parses.
func (c *APIConfig) MaxRequestSizeBytes() int64 {
	size, _ := formatting.ParseBytes(c.MaxRequestSize)
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.OpenAPI.Finalize(openAPIEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxRequestSize != "" {
		c.MaxRequestSize = overlay.MaxRequestSize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxRequestSize == "" {
		c.MaxRequestSize = "1MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv(EnvAPIBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvAPIMaxRequestSize); v != "" {
		c.MaxRequestSize = v
	}
}

func (c *APIConfig) validate() error {
	if !strings.HasPrefix(c.BasePath, "/") || strings.Count(c.BasePath, "/") != 1 {
		return fmt.Errorf("base_path must be a single-level path like /api: %q", c.BasePath)
	}
	if c.BasePath == PredictPath {
		return fmt.Errorf("base_path %q collides with the prediction endpoint", c.BasePath)
	}
	size, err := formatting.ParseBytes(c.MaxRequestSize)
	if err != nil {
		return fmt.Errorf("invalid max_request_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_request_size must be positive")
	}
	return nil
}
