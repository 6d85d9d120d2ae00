// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonathan/form-autofill/internal/resolve"
	"github.com/jonathan/form-autofill/internal/storage"
	"github.com/jonathan/form-autofill/internal/writer"
	"gopkg.in/yaml.v3"
)

// Config represents the CLI configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values use defaults or come from the environment.
type Config struct {
	// Storage
	Store       string `json:"store,omitempty" yaml:"store,omitempty"`               // memory, file or postgres
	StorePath   string `json:"store_path,omitempty" yaml:"store_path,omitempty"`     // File store location
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty"` // PostgreSQL connection URL

	// Filling
	DefaultCountry    string `json:"default_country,omitempty" yaml:"default_country,omitempty"`
	HighlightColor    string `json:"highlight_color,omitempty" yaml:"highlight_color,omitempty"`
	HighlightDuration string `json:"highlight_duration,omitempty" yaml:"highlight_duration,omitempty"` // e.g. "2s"; "0s" disables clearing

	// Behavior
	UseBrowser bool `json:"use_browser,omitempty" yaml:"use_browser,omitempty"` // Fill through headless Chrome
	Verbose    bool `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Store:             storage.BackendFile,
		StorePath:         DefaultStorePath(),
		DefaultCountry:    resolve.DefaultCountry,
		HighlightColor:    writer.DefaultHighlightColor,
		HighlightDuration: writer.DefaultHighlightDuration.String(),
	}
}

// DefaultStorePath is the file store location under the user config directory.
func DefaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "form-autofill", "store.json")
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// ApplyEnv overrides fields with any of DATABASE_URL, AUTOFILL_STORE,
// AUTOFILL_STORE_PATH, DEFAULT_COUNTRY, HIGHLIGHT_COLOR and HIGHLIGHT_DURATION
// that are set.
func (c *Config) ApplyEnv() {
	for env, field := range map[string]*string{
		"DATABASE_URL":        &c.DatabaseURL,
		"AUTOFILL_STORE":      &c.Store,
		"AUTOFILL_STORE_PATH": &c.StorePath,
		"DEFAULT_COUNTRY":     &c.DefaultCountry,
		"HIGHLIGHT_COLOR":     &c.HighlightColor,
		"HIGHLIGHT_DURATION":  &c.HighlightDuration,
	} {
		if v := os.Getenv(env); v != "" {
			*field = v
		}
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	switch c.Store {
	case "", storage.BackendMemory:
	case storage.BackendFile:
		if c.StorePath == "" {
			return fmt.Errorf("config error: 'store_path' is required for the file store")
		}
	case storage.BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config error: 'database_url' is required for the postgres store")
		}
	default:
		return fmt.Errorf("config error: unknown store %q (want memory, file or postgres)", c.Store)
	}

	if c.HighlightDuration != "" {
		d, err := time.ParseDuration(c.HighlightDuration)
		if err != nil {
			return fmt.Errorf("config error: invalid 'highlight_duration': %w", err)
		}
		if d < 0 {
			return fmt.Errorf("config error: 'highlight_duration' must be non-negative")
		}
	}

	return nil
}

// Highlight returns the parsed highlight duration, falling back to the default.
func (c *Config) Highlight() time.Duration {
	d, err := time.ParseDuration(c.HighlightDuration)
	if err != nil || d < 0 {
		return writer.DefaultHighlightDuration
	}
	return d
}

// StoreLocation returns the location Open expects for the configured backend.
func (c *Config) StoreLocation() string {
	if c.Store == storage.BackendPostgres {
		return c.DatabaseURL
	}
	return c.StorePath
}

// MergeWithDefaults returns a new Config with empty string fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Store == "" {
		result.Store = defaults.Store
	}
	if result.StorePath == "" {
		result.StorePath = defaults.StorePath
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.DefaultCountry == "" {
		result.DefaultCountry = defaults.DefaultCountry
	}
	if result.HighlightColor == "" {
		result.HighlightColor = defaults.HighlightColor
	}
	if result.HighlightDuration == "" {
		result.HighlightDuration = defaults.HighlightDuration
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Load builds the effective configuration: the optional file at path, then
// environment overrides, then defaults for anything still unset.
func Load(path string) (Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	merged := cfg.MergeWithDefaults(Defaults())
	if err := merged.Validate(); err != nil {
		return Config{}, err
	}
	return merged, nil
}
