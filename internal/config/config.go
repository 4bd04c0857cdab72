// Package config loads the portfolio server's configuration from an optional
// YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrEmptyAddr is returned by Validate when no listen address is set.
	ErrEmptyAddr = errors.New("listen address is empty")

	// ErrInvalidYear is returned by Validate when a fixed year isn't a
	// four digit year.
	ErrInvalidYear = errors.New("year must have four digits")

	// ErrInvalidLogFormat is returned by Validate for log formats other
	// than "text" and "json".
	ErrInvalidLogFormat = errors.New(`log format must be "text" or "json"`)
)

// Config is everything needed to serve or render the portfolio.
type Config struct {
	// Addr is the address the HTTP server listens on.
	Addr string `yaml:"addr"`

	// StaticDir holds the stylesheets, scripts and images the pages
	// reference by logical name.
	StaticDir string `yaml:"static_dir"`

	// AssetPrefix is the URL path static assets are served under.
	AssetPrefix string `yaml:"asset_prefix"`

	// ManifestPath, if set, is a JSON manifest to load instead of
	// fingerprinting StaticDir at startup.
	ManifestPath string `yaml:"manifest_path"`

	// CataloguePath, if set, is a YAML catalogue to list instead of the
	// built-in one.
	CataloguePath string `yaml:"catalogue_path"`

	// Dev rebuilds the asset manifest whenever StaticDir changes.
	Dev bool `yaml:"dev"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Year, if not zero, is shown in place of the current year.
	Year int `yaml:"year"`
}

// Default returns a Config with every default filled in.
func Default() *Config {
	return &Config{
		Addr:        ":8080",
		StaticDir:   "static",
		AssetPrefix: "/static",
		LogLevel:    "info",
		LogFormat:   "text",
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides read through getenv, then validates the result. A
// missing file, or an empty path, just means the defaults are used. If getenv
// is nil, os.Getenv is used.
func Load(path string, getenv func(string) string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}
	if getenv == nil {
		getenv = os.Getenv
	}
	if err := cfg.applyEnv(getenv); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides the config with FOLIO_* variables. Like most hosts, PORT
// sets the port when no address is given.
func (c *Config) applyEnv(getenv func(string) string) error {
	if addr := strings.TrimSpace(getenv("FOLIO_ADDR")); addr != "" {
		c.Addr = addr
	} else if port := strings.TrimSpace(getenv("PORT")); port != "" {
		c.Addr = ":" + port
	}
	if dir := strings.TrimSpace(getenv("FOLIO_STATIC_DIR")); dir != "" {
		c.StaticDir = dir
	}
	if path := strings.TrimSpace(getenv("FOLIO_MANIFEST")); path != "" {
		c.ManifestPath = path
	}
	if path := strings.TrimSpace(getenv("FOLIO_CATALOGUE")); path != "" {
		c.CataloguePath = path
	}
	for _, key := range []string{"FOLIO_DEV", "DEV"} {
		value := strings.TrimSpace(getenv(key))
		if value == "" {
			continue
		}
		dev, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", key, err)
		}
		c.Dev = dev
		break
	}
	if level := strings.TrimSpace(getenv("FOLIO_LOG_LEVEL")); level != "" {
		c.LogLevel = level
	}
	if format := strings.TrimSpace(getenv("FOLIO_LOG_FORMAT")); format != "" {
		c.LogFormat = format
	}
	if year := strings.TrimSpace(getenv("FOLIO_YEAR")); year != "" {
		parsed, err := strconv.Atoi(year)
		if err != nil {
			return fmt.Errorf("failed to parse FOLIO_YEAR: %w", err)
		}
		c.Year = parsed
	}
	return nil
}

func (c *Config) applyDefaults() {
	defaults := Default()
	if c.StaticDir == "" {
		c.StaticDir = defaults.StaticDir
	}
	if c.AssetPrefix == "" {
		c.AssetPrefix = defaults.AssetPrefix
	}
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = defaults.LogFormat
	}
}

// Validate reports the first problem with the config, if any.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return ErrEmptyAddr
	}
	if c.Year != 0 && (c.Year < 1000 || c.Year > 9999) {
		return fmt.Errorf("%w: %d", ErrInvalidYear, c.Year)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.LogFormat)
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
