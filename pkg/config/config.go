// Package config loads watertower settings from TOML files.
//
// A config file describes the skyline to analyze and how to render and cache
// the result:
//
//	max_height = 9
//	heights    = [2, 5, 1, 2, 3, 4, 7, 7, 6]
//
//	[render]
//	formats   = ["txt", "svg"]
//	style     = "grid"
//	cell_size = 20
//
//	[cache]
//	redis = "localhost:6379"
//	ttl   = "24h"
//
// Every field is optional; [Default] supplies the values used when a field
// is absent. Command-line flags override file values.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/watertower/pkg/errors"
	"github.com/matzehuels/watertower/pkg/generate"
	"github.com/matzehuels/watertower/pkg/skyline"
)

// Config is the top-level configuration document.
type Config struct {
	MaxHeight int    `toml:"max_height"`
	Width     int    `toml:"width"`
	Heights   []int  `toml:"heights"`
	Preset    string `toml:"preset"`
	Seed      uint64 `toml:"seed"`

	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// RenderConfig controls output artifacts.
type RenderConfig struct {
	Formats  []string `toml:"formats"`
	Style    string   `toml:"style"`
	CellSize int      `toml:"cell_size"`
}

// CacheConfig selects and tunes the result cache.
type CacheConfig struct {
	Dir      string `toml:"dir"`
	Redis    string `toml:"redis"`
	Password string `toml:"password"`
	TTL      string `toml:"ttl"`
	Disabled bool   `toml:"disabled"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Defaults.
const (
	DefaultCellSize = 20
	DefaultStyle    = "grid"
	DefaultAddr     = ":8080"
	DefaultTTL      = 24 * time.Hour
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		MaxHeight: generate.DefaultMaxHeight,
		Width:     generate.DefaultWidth,
		Preset:    generate.PresetDefault,
		Render: RenderConfig{
			Formats:  []string{"txt"},
			Style:    DefaultStyle,
			CellSize: DefaultCellSize,
		},
		Server: ServerConfig{Addr: DefaultAddr},
	}
}

// Load reads and validates the TOML file at path on top of [Default].
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read config %s", path)
	}
	return Parse(data)
}

// Parse decodes and validates a TOML document on top of [Default].
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "unknown config key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks dimensions, cell size and cache TTL.
func (c *Config) Validate() error {
	if err := errors.ValidateDimensions(c.Width, c.MaxHeight); err != nil {
		return err
	}
	if c.Render.CellSize < 1 {
		return errors.New(errors.ErrCodeInvalidConfiguration, "render.cell_size must be positive, got %d", c.Render.CellSize)
	}
	if _, err := c.TTL(); err != nil {
		return err
	}
	return nil
}

// TTL parses the cache TTL, falling back to [DefaultTTL].
func (c *Config) TTL() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return DefaultTTL, nil
	}
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || d < 0 {
		return 0, errors.New(errors.ErrCodeInvalidConfiguration, "cache.ttl: invalid duration %q", c.Cache.TTL)
	}
	return d, nil
}

// Heightmap builds the configured skyline: explicit heights win over a
// preset.
func (c *Config) Heightmap() (*skyline.Heightmap, error) {
	if len(c.Heights) > 0 {
		return skyline.New(c.Heights, c.MaxHeight)
	}
	name := c.Preset
	if name == "" {
		name = generate.PresetDefault
	}
	return generate.Preset(name, c.MaxHeight)
}
