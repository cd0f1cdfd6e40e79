package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

const EnvSiteURL = "SLOP_SITE_URL"

// PublicationConfig holds the public site settings used in links.
type PublicationConfig struct {
	SiteURL string `toml:"site_url"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *PublicationConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	c.SiteURL = strings.TrimRight(c.SiteURL, "/")
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *PublicationConfig) Merge(overlay *PublicationConfig) {
	if overlay.SiteURL != "" {
		c.SiteURL = overlay.SiteURL
	}
}

func (c *PublicationConfig) loadDefaults() {
	if c.SiteURL == "" {
		c.SiteURL = "https://journalofaislop.com"
	}
}

func (c *PublicationConfig) loadEnv() {
	if v := os.Getenv(EnvSiteURL); v != "" {
		c.SiteURL = v
	}
}

func (c *PublicationConfig) validate() error {
	u, err := url.Parse(c.SiteURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid site_url %q", c.SiteURL)
	}
	return nil
}
