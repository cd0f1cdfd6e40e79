package database

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config holds PostgreSQL connection parameters.
type Config struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	Name            string `toml:"name"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	SSLMode         string `toml:"ssl_mode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime string `toml:"conn_max_lifetime"`
	ConnTimeout     string `toml:"conn_timeout"`
}

// Env names the environment variables that override each field. Empty
// names are skipped.
type Env struct {
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    string
	MaxIdleConns    string
	ConnMaxLifetime string
	ConnTimeout     string
}

type textField struct {
	dst  *string
	env  string
	def  string
	from string
}

type intField struct {
	dst  *int
	env  string
	def  int
	from int
}

// fields pairs every setting with its env name, default, and overlay
// value. overlay and env may be nil.
func (c *Config) fields(env *Env, overlay *Config) ([]textField, []intField) {
	if env == nil {
		env = &Env{}
	}
	if overlay == nil {
		overlay = &Config{}
	}
	text := []textField{
		{&c.Host, env.Host, "localhost", overlay.Host},
		{&c.Name, env.Name, "", overlay.Name},
		{&c.User, env.User, "", overlay.User},
		{&c.Password, env.Password, "", overlay.Password},
		{&c.SSLMode, env.SSLMode, "disable", overlay.SSLMode},
		{&c.ConnMaxLifetime, env.ConnMaxLifetime, "15m", overlay.ConnMaxLifetime},
		{&c.ConnTimeout, env.ConnTimeout, "5s", overlay.ConnTimeout},
	}
	ints := []intField{
		{&c.Port, env.Port, 5432, overlay.Port},
		{&c.MaxOpenConns, env.MaxOpenConns, 25, overlay.MaxOpenConns},
		{&c.MaxIdleConns, env.MaxIdleConns, 5, overlay.MaxIdleConns},
	}
	return text, ints
}

// ConnMaxLifetimeDuration parses ConnMaxLifetime. Call after Finalize.
func (c *Config) ConnMaxLifetimeDuration() time.Duration {
	d, _ := time.ParseDuration(c.ConnMaxLifetime)
	return d
}

// ConnTimeoutDuration parses ConnTimeout. Call after Finalize.
func (c *Config) ConnTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ConnTimeout)
	return d
}

// Dsn is the keyword/value form handed to the pgx driver.
func (c *Config) Dsn() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.Host, c.Port, c.Name, c.User, c.Password, c.SSLMode,
	)
}

// URL is the postgres:// form the migration driver expects.
func (c *Config) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Name,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

// Finalize fills defaults, applies env overrides, then validates.
func (c *Config) Finalize(env *Env) error {
	text, ints := c.fields(env, nil)
	for _, f := range text {
		if *f.dst == "" {
			*f.dst = f.def
		}
		if v := lookup(f.env); v != "" {
			*f.dst = v
		}
	}
	for _, f := range ints {
		if *f.dst == 0 {
			*f.dst = f.def
		}
		if v := lookup(f.env); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*f.dst = n
			}
		}
	}
	return c.validate()
}

// Merge copies the non-zero fields of overlay onto c.
func (c *Config) Merge(overlay *Config) {
	text, ints := c.fields(nil, overlay)
	for _, f := range text {
		if f.from != "" {
			*f.dst = f.from
		}
	}
	for _, f := range ints {
		if f.from != 0 {
			*f.dst = f.from
		}
	}
}

func (c *Config) validate() error {
	if c.Name == "" {
		return errors.New("name required")
	}
	if c.User == "" {
		return errors.New("user required")
	}
	if _, err := time.ParseDuration(c.ConnMaxLifetime); err != nil {
		return fmt.Errorf("invalid conn_max_lifetime: %w", err)
	}
	if _, err := time.ParseDuration(c.ConnTimeout); err != nil {
		return fmt.Errorf("invalid conn_timeout: %w", err)
	}
	return nil
}

func lookup(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}
