package scheduler

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config sets the background job intervals.
type Config struct {
	Enabled            *bool  `toml:"enabled"`
	ReviewInterval     string `toml:"review_interval"`
	HighlightInterval  string `toml:"highlight_interval"`
	StaleSweepInterval string `toml:"stale_sweep_interval"`
	StaleAfter         string `toml:"stale_after"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Enabled            string
	ReviewInterval     string
	HighlightInterval  string
	StaleSweepInterval string
	StaleAfter         string
}

// IsEnabled reports whether jobs run in this process. Unset means enabled.
func (c *Config) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// ReviewIntervalDuration returns ReviewInterval as a time.Duration.
func (c *Config) ReviewIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.ReviewInterval)
	return d
}

// HighlightIntervalDuration returns HighlightInterval as a time.Duration.
func (c *Config) HighlightIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.HighlightInterval)
	return d
}

// StaleSweepIntervalDuration returns StaleSweepInterval as a time.Duration.
func (c *Config) StaleSweepIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.StaleSweepInterval)
	return d
}

// StaleAfterDuration returns StaleAfter as a time.Duration.
func (c *Config) StaleAfterDuration() time.Duration {
	d, _ := time.ParseDuration(c.StaleAfter)
	return d
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
	if overlay.Enabled != nil {
		c.Enabled = overlay.Enabled
	}
	if overlay.ReviewInterval != "" {
		c.ReviewInterval = overlay.ReviewInterval
	}
	if overlay.HighlightInterval != "" {
		c.HighlightInterval = overlay.HighlightInterval
	}
	if overlay.StaleSweepInterval != "" {
		c.StaleSweepInterval = overlay.StaleSweepInterval
	}
	if overlay.StaleAfter != "" {
		c.StaleAfter = overlay.StaleAfter
	}
}

func (c *Config) loadDefaults() {
	if c.ReviewInterval == "" {
		c.ReviewInterval = "10m"
	}
	if c.HighlightInterval == "" {
		c.HighlightInterval = "24h"
	}
	if c.StaleSweepInterval == "" {
		c.StaleSweepInterval = "5m"
	}
	if c.StaleAfter == "" {
		c.StaleAfter = "30m"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Enabled != "" {
		if v := os.Getenv(env.Enabled); v != "" {
			if enabled, err := strconv.ParseBool(v); err == nil {
				c.Enabled = &enabled
			}
		}
	}
	if env.ReviewInterval != "" {
		if v := os.Getenv(env.ReviewInterval); v != "" {
			c.ReviewInterval = v
		}
	}
	if env.HighlightInterval != "" {
		if v := os.Getenv(env.HighlightInterval); v != "" {
			c.HighlightInterval = v
		}
	}
	if env.StaleSweepInterval != "" {
		if v := os.Getenv(env.StaleSweepInterval); v != "" {
			c.StaleSweepInterval = v
		}
	}
	if env.StaleAfter != "" {
		if v := os.Getenv(env.StaleAfter); v != "" {
			c.StaleAfter = v
		}
	}
}

func (c *Config) validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"review_interval", c.ReviewInterval},
		{"highlight_interval", c.HighlightInterval},
		{"stale_sweep_interval", c.StaleSweepInterval},
		{"stale_after", c.StaleAfter},
	}
	for _, f := range fields {
		d, err := time.ParseDuration(f.value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", f.name, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive", f.name)
		}
	}
	return nil
}
