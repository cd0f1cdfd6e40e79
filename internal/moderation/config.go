package moderation

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
)

// Classifier modes.
const (
	ModeTest = "test"
	ModeLive = "live"
)

// Config selects the classifier and the blocking thresholds.
type Config struct {
	Mode              string `toml:"mode"`
	Endpoint          string `toml:"endpoint"`
	APIKey            string `toml:"api_key"`
	APIVersion        string `toml:"api_version"`
	CategoryThreshold int    `toml:"category_threshold"`
	OverallThreshold  int    `toml:"overall_threshold"`
	ForceBlock        bool   `toml:"force_block"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Mode       string
	Endpoint   string
	APIKey     string
	ForceBlock string
}

// Thresholds returns the configured blocking thresholds.
func (c *Config) Thresholds() Thresholds {
	return Thresholds{Category: c.CategoryThreshold, Overall: c.OverallThreshold}
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Mode != "" {
		c.Mode = overlay.Mode
	}
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.APIVersion != "" {
		c.APIVersion = overlay.APIVersion
	}
	if overlay.CategoryThreshold != 0 {
		c.CategoryThreshold = overlay.CategoryThreshold
	}
	if overlay.OverallThreshold != 0 {
		c.OverallThreshold = overlay.OverallThreshold
	}
	c.ForceBlock = c.ForceBlock || overlay.ForceBlock
}

func (c *Config) loadDefaults() {
	if c.Mode == "" {
		c.Mode = ModeTest
	}
	if c.APIVersion == "" {
		c.APIVersion = DefaultAPIVersion
	}
	if c.CategoryThreshold == 0 {
		c.CategoryThreshold = 4
	}
	if c.OverallThreshold == 0 {
		c.OverallThreshold = 8
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Mode != "" {
		if v := os.Getenv(env.Mode); v != "" {
			c.Mode = v
		}
	}
	if env.Endpoint != "" {
		if v := os.Getenv(env.Endpoint); v != "" {
			c.Endpoint = v
		}
	}
	if env.APIKey != "" {
		if v := os.Getenv(env.APIKey); v != "" {
			c.APIKey = v
		}
	}
	if env.ForceBlock != "" {
		if v := os.Getenv(env.ForceBlock); v != "" {
			if force, err := strconv.ParseBool(v); err == nil {
				c.ForceBlock = force
			}
		}
	}
}

func (c *Config) validate() error {
	switch c.Mode {
	case ModeTest:
	case ModeLive:
		if c.Endpoint == "" {
			return ErrMissingEndpoint
		}
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	if c.CategoryThreshold < 0 || c.OverallThreshold < 0 {
		return fmt.Errorf("thresholds must not be negative")
	}
	return nil
}

// New builds the Gate selected by cfg. Screened content is truncated to
// truncate characters.
func New(cfg *Config, truncate int, logger *slog.Logger) (*Gate, error) {
	var classifier Classifier = DryRun{}

	if cfg.Mode == ModeLive {
		azure, err := NewAzure(AzureOptions{
			Endpoint:   cfg.Endpoint,
			APIKey:     cfg.APIKey,
			APIVersion: cfg.APIVersion,
		})
		if err != nil {
			return nil, fmt.Errorf("content safety client: %w", err)
		}
		classifier = azure
	}

	return NewGate(classifier, Options{
		Thresholds:     cfg.Thresholds(),
		TruncateLength: truncate,
		ForceBlock:     cfg.Mode == ModeTest && cfg.ForceBlock,
	}, logger), nil
}
