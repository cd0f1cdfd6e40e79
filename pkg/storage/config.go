package storage

import (
	"errors"
	"os"
)

// DefaultContainer holds generated artifacts such as sitemaps.
const DefaultContainer = "artifacts"

// Config locates the blob container. ConnectionString wins when set;
// otherwise ServiceURL is used with the default Azure credential chain.
type Config struct {
	ContainerName    string `toml:"container_name"`
	ConnectionString string `toml:"connection_string"`
	ServiceURL       string `toml:"service_url"`
}

// Env names the environment variables that override each field.
type Env struct {
	ContainerName    string
	ConnectionString string
	ServiceURL       string
}

type field struct {
	dst  *string
	env  string
	from string
}

// fields pairs each setting with its env name and overlay value.
func (c *Config) fields(env *Env, overlay *Config) []field {
	if env == nil {
		env = &Env{}
	}
	if overlay == nil {
		overlay = &Config{}
	}
	return []field{
		{&c.ContainerName, env.ContainerName, overlay.ContainerName},
		{&c.ConnectionString, env.ConnectionString, overlay.ConnectionString},
		{&c.ServiceURL, env.ServiceURL, overlay.ServiceURL},
	}
}

// Finalize fills defaults, applies env overrides, then validates.
func (c *Config) Finalize(env *Env) error {
	if c.ContainerName == "" {
		c.ContainerName = DefaultContainer
	}
	for _, f := range c.fields(env, nil) {
		if f.env == "" {
			continue
		}
		if v := os.Getenv(f.env); v != "" {
			*f.dst = v
		}
	}
	return c.validate()
}

// Merge copies the non-empty fields of overlay onto c.
func (c *Config) Merge(overlay *Config) {
	for _, f := range c.fields(nil, overlay) {
		if f.from != "" {
			*f.dst = f.from
		}
	}
}

func (c *Config) validate() error {
	switch {
	case c.ContainerName == "":
		return errors.New("container_name required")
	case c.ConnectionString == "" && c.ServiceURL == "":
		return errors.New("connection_string or service_url required")
	}
	return nil
}
