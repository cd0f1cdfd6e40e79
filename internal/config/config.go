package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/slopjournal/internal/announcements"
	"github.com/JaimeStill/slopjournal/internal/moderation"
	"github.com/JaimeStill/slopjournal/internal/notify"
	"github.com/JaimeStill/slopjournal/internal/review"
	"github.com/JaimeStill/slopjournal/internal/scheduler"
	"github.com/JaimeStill/slopjournal/pkg/auth"
	"github.com/JaimeStill/slopjournal/pkg/database"
	"github.com/JaimeStill/slopjournal/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvSlopEnv             = "SLOP_ENV"
	EnvSlopShutdownTimeout = "SLOP_SHUTDOWN_TIMEOUT"
	EnvSlopVersion         = "SLOP_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "SLOP_DB_HOST",
	Port:            "SLOP_DB_PORT",
	Name:            "SLOP_DB_NAME",
	User:            "SLOP_DB_USER",
	Password:        "SLOP_DB_PASSWORD",
	SSLMode:         "SLOP_DB_SSL_MODE",
	MaxOpenConns:    "SLOP_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "SLOP_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "SLOP_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "SLOP_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "SLOP_STORAGE_CONTAINER_NAME",
	ConnectionString: "SLOP_STORAGE_CONNECTION_STRING",
	ServiceURL:       "SLOP_STORAGE_SERVICE_URL",
}

var reviewEnv = &review.Env{
	Endpoint:     "SLOP_OPENROUTER_ENDPOINT",
	APIKey:       "SLOP_OPENROUTER_API_KEY",
	Roster:       "SLOP_REVIEW_ROSTER",
	MaxCost:      "SLOP_REVIEW_MAX_COST",
	JudgeTimeout: "SLOP_REVIEW_JUDGE_TIMEOUT",
}

var moderationEnv = &moderation.Env{
	Mode:       "SLOP_MODERATION_MODE",
	Endpoint:   "SLOP_CONTENT_SAFETY_ENDPOINT",
	APIKey:     "SLOP_CONTENT_SAFETY_KEY",
	ForceBlock: "SLOP_MODERATION_FORCE_BLOCK",
}

var announcementsEnv = &announcements.Env{
	Mode:         "SLOP_ANNOUNCEMENTS_MODE",
	APIKey:       "SLOP_OPENROUTER_API_KEY",
	Model:        "SLOP_ANNOUNCEMENTS_MODEL",
	Temperature:  "SLOP_ANNOUNCEMENTS_TEMPERATURE",
	XBearerToken: "SLOP_X_BEARER_TOKEN",
	WebhookURL:   "SLOP_WEBHOOK_URL",
	WebhookToken: "SLOP_WEBHOOK_TOKEN",
}

var notifyEnv = &notify.Env{
	Mode:   "SLOP_NOTIFY_MODE",
	APIKey: "SLOP_RESEND_API_KEY",
	From:   "SLOP_NOTIFY_FROM",
}

var schedulerEnv = &scheduler.Env{
	Enabled:            "SLOP_SCHEDULER_ENABLED",
	ReviewInterval:     "SLOP_SCHEDULER_REVIEW_INTERVAL",
	HighlightInterval:  "SLOP_SCHEDULER_HIGHLIGHT_INTERVAL",
	StaleSweepInterval: "SLOP_SCHEDULER_STALE_SWEEP_INTERVAL",
	StaleAfter:         "SLOP_SCHEDULER_STALE_AFTER",
}

var authEnv = &auth.Env{
	Enabled:   "SLOP_AUTH_ENABLED",
	IssuerURL: "SLOP_AUTH_ISSUER_URL",
	ClientID:  "SLOP_AUTH_CLIENT_ID",
}

// Config is the root configuration for the journal service.
type Config struct {
	Server          ServerConfig         `toml:"server"`
	Database        database.Config      `toml:"database"`
	Storage         storage.Config       `toml:"storage"`
	API             APIConfig            `toml:"api"`
	Logging         LoggingConfig        `toml:"logging"`
	Review          review.Config        `toml:"review"`
	Moderation      moderation.Config    `toml:"moderation"`
	Publication     PublicationConfig    `toml:"publication"`
	Announcements   announcements.Config `toml:"announcements"`
	Notify          notify.Config        `toml:"notify"`
	Scheduler       scheduler.Config     `toml:"scheduler"`
	Auth            auth.Config          `toml:"auth"`
	ShutdownTimeout string               `toml:"shutdown_timeout"`
	Version         string               `toml:"version"`
}

// Env returns the SLOP_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvSlopEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Logging.Merge(&overlay.Logging)
	c.Review.Merge(&overlay.Review)
	c.Moderation.Merge(&overlay.Moderation)
	c.Publication.Merge(&overlay.Publication)
	c.Announcements.Merge(&overlay.Announcements)
	c.Notify.Merge(&overlay.Notify)
	c.Scheduler.Merge(&overlay.Scheduler)
	c.Auth.Merge(&overlay.Auth)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}

	sections := []struct {
		name     string
		finalize func() error
	}{
		{"server", c.Server.Finalize},
		{"database", func() error { return c.Database.Finalize(databaseEnv) }},
		{"storage", func() error { return c.Storage.Finalize(storageEnv) }},
		{"api", c.API.Finalize},
		{"logging", c.Logging.Finalize},
		{"review", func() error { return c.Review.Finalize(reviewEnv) }},
		{"moderation", func() error { return c.Moderation.Finalize(moderationEnv) }},
		{"publication", c.Publication.Finalize},
		{"announcements", func() error { return c.Announcements.Finalize(announcementsEnv) }},
		{"notify", func() error { return c.Notify.Finalize(notifyEnv) }},
		{"scheduler", func() error { return c.Scheduler.Finalize(schedulerEnv) }},
		{"auth", func() error { return c.Auth.Finalize(authEnv) }},
	}

	for _, s := range sections {
		if err := s.finalize(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvSlopShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvSlopVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvSlopEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
