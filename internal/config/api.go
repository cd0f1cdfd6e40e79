package config

import (
	"fmt"
	"os"

	"github.com/JaimeStill/slopjournal/internal/intake"
	"github.com/JaimeStill/slopjournal/pkg/formatting"
	"github.com/JaimeStill/slopjournal/pkg/middleware"
	"github.com/JaimeStill/slopjournal/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "SLOP_CORS_ENABLED",
	Origins:          "SLOP_CORS_ORIGINS",
	AllowedMethods:   "SLOP_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "SLOP_CORS_ALLOWED_HEADERS",
	AllowCredentials: "SLOP_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "SLOP_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "SLOP_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "SLOP_PAGINATION_MAX_PAGE_SIZE",
}

var intakeEnv = &intake.Env{
	ContentLimit: "SLOP_INTAKE_CONTENT_LIMIT",
	Signifiers:   "SLOP_INTAKE_SIGNIFIERS",
}

// APIConfig holds API routing, request limits, CORS, pagination, and
// submission rules.
type APIConfig struct {
	BasePath    string                `toml:"base_path"`
	MaxBodySize string                `toml:"max_body_size"`
	CORS        middleware.CORSConfig `toml:"cors"`
	Pagination  pagination.Config     `toml:"pagination"`
	Intake      intake.Config         `toml:"intake"`
}

// MaxBodySizeBytes returns MaxBodySize in bytes.
func (c *APIConfig) MaxBodySizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxBodySize)
	if err != nil {
		return 1024 * 1024
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if _, err := formatting.ParseBytes(c.MaxBodySize); err != nil {
		return fmt.Errorf("invalid max_body_size: %w", err)
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.Intake.Finalize(intakeEnv); err != nil {
		return fmt.Errorf("intake: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxBodySize != "" {
		c.MaxBodySize = overlay.MaxBodySize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.Intake.Merge(&overlay.Intake)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "1MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("SLOP_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("SLOP_API_MAX_BODY_SIZE"); v != "" {
		c.MaxBodySize = v
	}
}
