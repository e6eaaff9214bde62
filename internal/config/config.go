// Package config loads the client configuration from a small YAML file
// under the user config directory. A missing file is not an error: every
// field has a usable default so the tool runs out of the box against a
// local backend.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	defaultBaseURL = "http://localhost:3000"
	appDirName     = "pointr"
)

type Config struct {
	API  APIConfig  `yaml:"api"`
	Data DataConfig `yaml:"data"`
}

type APIConfig struct {
	BaseURL string `yaml:"base_url"`
}

type DataConfig struct {
	// Dir holds the local SQLite database. Defaults to the pointr
	// directory under os.UserConfigDir.
	Dir string `yaml:"dir"`
}

// DefaultPath returns the expected config file location,
// e.g. ~/.config/pointr/config.yaml on Linux.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve user config dir: %w", err)
	}
	return filepath.Join(base, appDirName, "config.yaml"), nil
}

// Load reads the config file at path. A nonexistent file yields the
// defaults; any other read or parse failure is an error.
func Load(path string) (*Config, error) {
	var cfg Config

	b, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// fall through to defaults
	case err != nil:
		return nil, fmt.Errorf("config: read file %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() error {
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaultBaseURL
	}
	if c.Data.Dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return fmt.Errorf("config: resolve user config dir: %w", err)
		}
		c.Data.Dir = filepath.Join(base, appDirName)
	}
	return nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: api.base_url %q is not a valid http(s) URL", c.API.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("config: api.base_url scheme %q must be http or https", u.Scheme)
	}
	return nil
}

// DBPath returns the SQLite database location inside the data dir.
func (c *Config) DBPath() string {
	return filepath.Join(c.Data.Dir, "pointr.db")
}
