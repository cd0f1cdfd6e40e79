package review

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/JaimeStill/slopjournal/pkg/openrouter"
)

// DefaultRoster is the judge panel. Every model reviews every paper.
var DefaultRoster = []string{
	"anthropic/claude-3-haiku",
	"x-ai/grok-4.1-fast:free",
	"google/gemini-2.5-flash-lite",
	"openai/gpt-5-nano",
	"meta-llama/llama-3.3-70b-instruct",
}

// Config holds judge transport and panel settings.
type Config struct {
	Endpoint       string   `toml:"endpoint"`
	APIKey         string   `toml:"api_key"`
	Roster         []string `toml:"roster"`
	Temperature    float64  `toml:"temperature"`
	MaxTokens      int      `toml:"max_tokens"`
	TruncateLength int      `toml:"truncate_length"`
	MaxCost        float64  `toml:"max_cost"`
	QuorumRatio    float64  `toml:"quorum_ratio"`
	JudgeTimeout   string   `toml:"judge_timeout"`
	HTTPTimeout    string   `toml:"http_timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Endpoint     string
	APIKey       string
	Roster       string
	MaxCost      string
	JudgeTimeout string
}

// JudgeTimeoutDuration returns JudgeTimeout as a time.Duration.
func (c *Config) JudgeTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.JudgeTimeout)
	return d
}

// HTTPTimeoutDuration returns HTTPTimeout as a time.Duration.
func (c *Config) HTTPTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.HTTPTimeout)
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
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if len(overlay.Roster) > 0 {
		c.Roster = overlay.Roster
	}
	if overlay.Temperature != 0 {
		c.Temperature = overlay.Temperature
	}
	if overlay.MaxTokens != 0 {
		c.MaxTokens = overlay.MaxTokens
	}
	if overlay.TruncateLength != 0 {
		c.TruncateLength = overlay.TruncateLength
	}
	if overlay.MaxCost != 0 {
		c.MaxCost = overlay.MaxCost
	}
	if overlay.QuorumRatio != 0 {
		c.QuorumRatio = overlay.QuorumRatio
	}
	if overlay.JudgeTimeout != "" {
		c.JudgeTimeout = overlay.JudgeTimeout
	}
	if overlay.HTTPTimeout != "" {
		c.HTTPTimeout = overlay.HTTPTimeout
	}
}

func (c *Config) loadDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = openrouter.DefaultEndpoint
	}
	if len(c.Roster) == 0 {
		c.Roster = DefaultRoster
	}
	if c.Temperature == 0 {
		c.Temperature = 0.7
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 500
	}
	if c.TruncateLength == 0 {
		c.TruncateLength = 2000
	}
	if c.MaxCost == 0 {
		c.MaxCost = 0.2
	}
	if c.QuorumRatio == 0 {
		c.QuorumRatio = DefaultQuorumRatio
	}
	if c.JudgeTimeout == "" {
		c.JudgeTimeout = "60s"
	}
	if c.HTTPTimeout == "" {
		c.HTTPTimeout = "90s"
	}
}

func (c *Config) loadEnv(env *Env) {
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
	if env.Roster != "" {
		if v := os.Getenv(env.Roster); v != "" {
			var roster []string
			for m := range strings.SplitSeq(v, ",") {
				if m = strings.TrimSpace(m); m != "" {
					roster = append(roster, m)
				}
			}
			if len(roster) > 0 {
				c.Roster = roster
			}
		}
	}
	if env.MaxCost != "" {
		if v := os.Getenv(env.MaxCost); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				c.MaxCost = f
			}
		}
	}
	if env.JudgeTimeout != "" {
		if v := os.Getenv(env.JudgeTimeout); v != "" {
			c.JudgeTimeout = v
		}
	}
}

func (c *Config) validate() error {
	if c.APIKey == "" {
		return errors.New("api_key required: judges cannot be called without an OpenRouter key")
	}
	if len(c.Roster) == 0 {
		return errors.New("roster must name at least one model")
	}
	if c.QuorumRatio <= 0 || c.QuorumRatio > 1 {
		return fmt.Errorf("quorum_ratio must be in (0, 1]: %v", c.QuorumRatio)
	}
	if c.TruncateLength < 1 {
		return fmt.Errorf("truncate_length must be positive: %d", c.TruncateLength)
	}
	if _, err := time.ParseDuration(c.JudgeTimeout); err != nil {
		return fmt.Errorf("invalid judge_timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.HTTPTimeout); err != nil {
		return fmt.Errorf("invalid http_timeout: %w", err)
	}
	return nil
}
