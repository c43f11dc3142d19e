// Package config loads the profile file and resolves connection parameters
// across flag, environment, and profile layers.
package config

import (
	"cmp"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// DefaultServer is the server used when nothing else names one.
const DefaultServer = "http://localhost:8000"

// Profile holds the connection parameters for one named server.
type Profile struct {
	Server    string `yaml:"server"`
	Directory string `yaml:"directory,omitempty"`
}

// Config is the on-disk profile file.
type Config struct {
	Default  string             `yaml:"default,omitempty"`
	Profiles map[string]Profile `yaml:"profiles,omitempty"`
}

// Settings are the resolved parameters for one invocation.
type Settings struct {
	Server    string
	Directory string
	Profile   string
}

// DefaultPath returns $OC_CONFIG when set, else the config file under the
// user config directory.
func DefaultPath() string {
	if p := os.Getenv("OC_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "oc", "config.yaml")
}

// Load reads the config at path, or at DefaultPath when path is empty. A
// missing file is not an error; it yields an empty config.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	var cfg Config
	if path == "" {
		return &cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// Resolve layers flag values over OC_SERVER/OC_PROFILE/OC_DIRECTORY over the
// selected profile over built-in defaults. Naming a profile that does not
// exist is an error; an absent default profile silently falls back to the
// built-ins.
func (c *Config) Resolve(flagServer, flagProfile, flagDirectory string) (Settings, error) {
	name := cmp.Or(flagProfile, os.Getenv("OC_PROFILE"))

	var p Profile
	if name != "" {
		prof, ok := c.Profiles[name]
		if !ok {
			return Settings{}, fmt.Errorf("unknown profile %q", name)
		}
		p = prof
	} else if prof, ok := c.Profiles[c.Default]; ok {
		name = c.Default
		p = prof
	}

	return Settings{
		Profile:   name,
		Server:    cmp.Or(flagServer, os.Getenv("OC_SERVER"), p.Server, DefaultServer),
		Directory: cmp.Or(flagDirectory, os.Getenv("OC_DIRECTORY"), p.Directory),
	}, nil
}

// Lookup returns the named profile, or the default profile when name is
// empty.
func (c *Config) Lookup(name string) (Profile, bool) {
	if name == "" {
		name = c.Default
	}
	p, ok := c.Profiles[name]
	return p, ok
}

// Names returns the profile names in sorted order.
func (c *Config) Names() []string {
	return slices.Sorted(maps.Keys(c.Profiles))
}
