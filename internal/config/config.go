// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var errUnsupportedFormat = errors.New("unsupported config format, use .toml, .yaml or .yml")

// Duration accepts Go duration strings such as "2s" in both formats
type Duration time.Duration

// UnmarshalText ...
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText ...
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Config holds the settings that may come from a file. Flags override them.
type Config struct {
	Project        string   `toml:"project" yaml:"project"`
	Framework      string   `toml:"framework" yaml:"framework"`
	IgnorePrefixes []string `toml:"ignore_prefixes" yaml:"ignore_prefixes"`
	Connections    int64    `toml:"connections" yaml:"connections"`
	Workers        int      `toml:"workers" yaml:"workers"`
	CommandTimeout Duration `toml:"command_timeout" yaml:"command_timeout"`
	HTTPTimeout    Duration `toml:"http_timeout" yaml:"http_timeout"`
	DetectLicenses *bool    `toml:"detect_licenses" yaml:"detect_licenses"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Project:        ".",
		Connections:    2,
		Workers:        8,
		CommandTimeout: Duration(2 * time.Second),
		HTTPTimeout:    Duration(30 * time.Second),
		DetectLicenses: boolPtr(true),
	}
}

// Load reads path, picking the format from its extension. An empty path
// returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(contents, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(contents, &cfg)
	default:
		return Config{}, fmt.Errorf("%s: %w", path, errUnsupportedFormat)
	}
	if err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults fills fields the file left empty or set to nonsense values.
func (c *Config) ApplyDefaults() {
	defaults := Default()

	if c.Project == "" {
		c.Project = defaults.Project
	}
	if c.Connections <= 0 {
		c.Connections = defaults.Connections
	}
	if c.Workers <= 0 {
		c.Workers = defaults.Workers
	}
	if c.CommandTimeout <= 0 {
		c.CommandTimeout = defaults.CommandTimeout
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = defaults.HTTPTimeout
	}
	if c.DetectLicenses == nil {
		c.DetectLicenses = defaults.DetectLicenses
	}
}

// Detect reports whether license detection is enabled
func (c Config) Detect() bool {
	return c.DetectLicenses == nil || *c.DetectLicenses
}

func boolPtr(v bool) *bool {
	return &v
}
