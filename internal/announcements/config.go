package announcements

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/JaimeStill/slopjournal/pkg/openrouter"
)

// Poster modes.
const (
	ModeDisabled = "disabled"
	ModeDebug    = "debug"
	ModeX        = "x"
	ModeWebhook  = "webhook"
)

// DefaultXEndpoint is the X (Twitter) v2 create-post URL.
const DefaultXEndpoint = "https://api.twitter.com/2/tweets"

// Config selects the poster and configures drafting.
type Config struct {
	Mode         string  `toml:"mode"`
	Endpoint     string  `toml:"endpoint"`
	APIKey       string  `toml:"api_key"`
	Model        string  `toml:"model"`
	Temperature  float64 `toml:"temperature"`
	MaxTokens    int     `toml:"max_tokens"`
	XEndpoint    string  `toml:"x_endpoint"`
	XBearerToken string  `toml:"x_bearer_token"`
	WebhookURL   string  `toml:"webhook_url"`
	WebhookToken string  `toml:"webhook_token"`
	Timeout      string  `toml:"timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Mode         string
	APIKey       string
	Model        string
	Temperature  string
	XBearerToken string
	WebhookURL   string
	WebhookToken string
}

// Enabled reports whether announcements are posted at all.
func (c *Config) Enabled() bool {
	return c.Mode != ModeDisabled
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
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.Temperature != 0 {
		c.Temperature = overlay.Temperature
	}
	if overlay.MaxTokens != 0 {
		c.MaxTokens = overlay.MaxTokens
	}
	if overlay.XEndpoint != "" {
		c.XEndpoint = overlay.XEndpoint
	}
	if overlay.XBearerToken != "" {
		c.XBearerToken = overlay.XBearerToken
	}
	if overlay.WebhookURL != "" {
		c.WebhookURL = overlay.WebhookURL
	}
	if overlay.WebhookToken != "" {
		c.WebhookToken = overlay.WebhookToken
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
		c.Endpoint = openrouter.DefaultEndpoint
	}
	if c.Model == "" {
		c.Model = "openai/gpt-4o-mini"
	}
	if c.Temperature == 0 {
		c.Temperature = 0.85
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 10000
	}
	if c.XEndpoint == "" {
		c.XEndpoint = DefaultXEndpoint
	}
	if c.Timeout == "" {
		c.Timeout = "30s"
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
	if env.Model != "" {
		if v := os.Getenv(env.Model); v != "" {
			c.Model = v
		}
	}
	if env.Temperature != "" {
		if v := os.Getenv(env.Temperature); v != "" {
			if t, err := strconv.ParseFloat(v, 64); err == nil {
				c.Temperature = t
			}
		}
	}
	if env.XBearerToken != "" {
		if v := os.Getenv(env.XBearerToken); v != "" {
			c.XBearerToken = v
		}
	}
	if env.WebhookURL != "" {
		if v := os.Getenv(env.WebhookURL); v != "" {
			c.WebhookURL = v
		}
	}
	if env.WebhookToken != "" {
		if v := os.Getenv(env.WebhookToken); v != "" {
			c.WebhookToken = v
		}
	}
}

func (c *Config) validate() error {
	switch c.Mode {
	case ModeDisabled:
		return nil
	case ModeDebug:
	case ModeX:
		if c.XBearerToken == "" {
			return fmt.Errorf("x_bearer_token required for mode %q", c.Mode)
		}
	case ModeWebhook:
		if c.WebhookURL == "" || c.WebhookToken == "" {
			return fmt.Errorf("webhook_url and webhook_token required for mode %q", c.Mode)
		}
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	if c.APIKey == "" {
		return fmt.Errorf("api_key required for mode %q", c.Mode)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
