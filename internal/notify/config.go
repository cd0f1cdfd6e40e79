package notify

import (
	"fmt"
	"os"
	"time"
)

// Notifier modes.
const (
	ModeDisabled = "disabled"
	ModeLog      = "log"
	ModeResend   = "resend"
)

// DefaultEndpoint is the Resend send-email URL.
const DefaultEndpoint = "https://api.resend.com/emails"

// Config selects and configures the status email notifier.
type Config struct {
	Mode     string `toml:"mode"`
	Endpoint string `toml:"endpoint"`
	APIKey   string `toml:"api_key"`
	From     string `toml:"from"`
	Timeout  string `toml:"timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Mode   string
	APIKey string
	From   string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
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
	if overlay.Mode != "" {
		c.Mode = overlay.Mode
	}
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.From != "" {
		c.From = overlay.From
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *Config) loadDefaults() {
	if c.Mode == "" {
		c.Mode = ModeDisabled
	}
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.From == "" {
		c.From = "editor@mail.journalofaislop.com"
	}
	if c.Timeout == "" {
		c.Timeout = "15s"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Mode != "" {
		if v := os.Getenv(env.Mode); v != "" {
			c.Mode = v
		}
	}
	if env.APIKey != "" {
		if v := os.Getenv(env.APIKey); v != "" {
			c.APIKey = v
		}
	}
	if env.From != "" {
		if v := os.Getenv(env.From); v != "" {
			c.From = v
		}
	}
}

func (c *Config) validate() error {
	switch c.Mode {
	case ModeDisabled, ModeLog:
	case ModeResend:
		if c.APIKey == "" {
			return fmt.Errorf("api_key required for mode %q", c.Mode)
		}
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
