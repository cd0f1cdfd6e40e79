package intake

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Default validation rules.
var (
	DefaultSignifiers = []string{"GPT", "Claude", "Gemini", "Grok", "LLaMA", "Bard", "Kimi", "Minimax", "Phi", "Qwen"}
	DefaultTags       = []string{"Actually Academic", "Pseudo academic", "Nonsense", "Pure Slop", "🤷‍♂️"}
)

// DefaultContentLimit is the maximum content length in characters.
const DefaultContentLimit = 9500

// Config holds submission validation rules.
type Config struct {
	ContentLimit int      `toml:"content_limit"`
	Signifiers   []string `toml:"signifiers"`
	Tags         []string `toml:"tags"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	ContentLimit string
	Signifiers   string
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
	if overlay.ContentLimit != 0 {
		c.ContentLimit = overlay.ContentLimit
	}
	if len(overlay.Signifiers) > 0 {
		c.Signifiers = overlay.Signifiers
	}
	if len(overlay.Tags) > 0 {
		c.Tags = overlay.Tags
	}
}

func (c *Config) loadDefaults() {
	if c.ContentLimit == 0 {
		c.ContentLimit = DefaultContentLimit
	}
	if len(c.Signifiers) == 0 {
		c.Signifiers = DefaultSignifiers
	}
	if len(c.Tags) == 0 {
		c.Tags = DefaultTags
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.ContentLimit != "" {
		if v := os.Getenv(env.ContentLimit); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.ContentLimit = n
			}
		}
	}
	if env.Signifiers != "" {
		if v := os.Getenv(env.Signifiers); v != "" {
			var s []string
			for part := range strings.SplitSeq(v, ",") {
				if p := strings.TrimSpace(part); p != "" {
					s = append(s, p)
				}
			}
			if len(s) > 0 {
				c.Signifiers = s
			}
		}
	}
}

func (c *Config) validate() error {
	if c.ContentLimit < 1 {
		return fmt.Errorf("content_limit must be positive: %d", c.ContentLimit)
	}
	return nil
}
