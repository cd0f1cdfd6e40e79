package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

const (
	EnvServerHost              = "SLOP_SERVER_HOST"
	EnvServerPort              = "SLOP_SERVER_PORT"
	EnvServerReadTimeout       = "SLOP_SERVER_READ_TIMEOUT"
	EnvServerReadHeaderTimeout = "SLOP_SERVER_READ_HEADER_TIMEOUT"
	EnvServerWriteTimeout      = "SLOP_SERVER_WRITE_TIMEOUT"
	EnvServerShutdownTimeout   = "SLOP_SERVER_SHUTDOWN_TIMEOUT"
)

// ServerConfig holds HTTP listener settings. Reviews run off the request
// path, so write timeouts only need to cover submission and listing.
type ServerConfig struct {
	Host              string `toml:"host"`
	Port              int    `toml:"port"`
	ReadTimeout       string `toml:"read_timeout"`
	ReadHeaderTimeout string `toml:"read_header_timeout"`
	WriteTimeout      string `toml:"write_timeout"`
	ShutdownTimeout   string `toml:"shutdown_timeout"`
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c *ServerConfig) ReadTimeoutDuration() time.Duration {
	return durationOf(c.ReadTimeout)
}

func (c *ServerConfig) ReadHeaderTimeoutDuration() time.Duration {
	return durationOf(c.ReadHeaderTimeout)
}

func (c *ServerConfig) WriteTimeoutDuration() time.Duration {
	return durationOf(c.WriteTimeout)
}

func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration {
	return durationOf(c.ShutdownTimeout)
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ServerConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ServerConfig) Merge(overlay *ServerConfig) {
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	for _, f := range c.durations(overlay) {
		if *f.src != "" {
			*f.dst = *f.src
		}
	}
}

func (c *ServerConfig) loadDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	defaults := map[*string]string{
		&c.ReadTimeout:       "30s",
		&c.ReadHeaderTimeout: "10s",
		&c.WriteTimeout:      "1m",
		&c.ShutdownTimeout:   "30s",
	}
	for dst, v := range defaults {
		if *dst == "" {
			*dst = v
		}
	}
}

func (c *ServerConfig) loadEnv() {
	if v := os.Getenv(EnvServerHost); v != "" {
		c.Host = v
	}
	if v := os.Getenv(EnvServerPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	for _, f := range c.durations(nil) {
		if v := os.Getenv(f.env); v != "" {
			*f.dst = v
		}
	}
}

func (c *ServerConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	for _, f := range c.durations(nil) {
		if _, err := time.ParseDuration(*f.dst); err != nil {
			return fmt.Errorf("invalid %s: %w", f.key, err)
		}
	}
	return nil
}

type durationField struct {
	key string
	env string
	dst *string
	src *string
}

// durations lists the duration settings. With a nil overlay, src is unset.
func (c *ServerConfig) durations(overlay *ServerConfig) []durationField {
	fields := []durationField{
		{key: "read_timeout", env: EnvServerReadTimeout, dst: &c.ReadTimeout},
		{key: "read_header_timeout", env: EnvServerReadHeaderTimeout, dst: &c.ReadHeaderTimeout},
		{key: "write_timeout", env: EnvServerWriteTimeout, dst: &c.WriteTimeout},
		{key: "shutdown_timeout", env: EnvServerShutdownTimeout, dst: &c.ShutdownTimeout},
	}
	if overlay != nil {
		fields[0].src = &overlay.ReadTimeout
		fields[1].src = &overlay.ReadHeaderTimeout
		fields[2].src = &overlay.WriteTimeout
		fields[3].src = &overlay.ShutdownTimeout
	}
	return fields
}

func durationOf(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
