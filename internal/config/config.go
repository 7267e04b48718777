// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables read by EnvDefaults.
const (
	EnvAPIKey      = "GEMINI_API_KEY"
	EnvDatabaseURL = "DATABASE_URL"
	EnvTemplate    = "BIOSKETCH_TEMPLATE"
)

// Default values applied by Defaults.
const (
	DefaultPort               = 8080
	DefaultMaxUploadMB        = 20
	DefaultRateLimitPerMinute = 10
)

// Config represents the CLI configuration that can be loaded from a JSON or
// YAML file. All fields are optional; missing values use defaults or must be
// provided via CLI flags.
type Config struct {
	// Paths
	Template string `json:"template,omitempty" yaml:"template,omitempty"` // Path to a template JSON or YAML file
	OutDir   string `json:"out_dir,omitempty" yaml:"out_dir,omitempty"`   // Directory for drafts and reports

	// Behavior
	Enhance     bool   `json:"enhance,omitempty" yaml:"enhance,omitempty"`           // Use the LLM enhancer
	APIKey      string `json:"api_key,omitempty" yaml:"api_key,omitempty"`           // Gemini API key
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty"` // PostgreSQL connection URL
	Verbose     bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"`           // Debug logging

	// Server
	Port               int `json:"port,omitempty" yaml:"port,omitempty"`
	MaxUploadMB        int `json:"max_upload_mb,omitempty" yaml:"max_upload_mb,omitempty"`
	RateLimitPerMinute int `json:"rate_limit_per_minute,omitempty" yaml:"rate_limit_per_minute,omitempty"`
}

// Defaults returns the built-in server limits.
func Defaults() Config {
	return Config{
		Port:               DefaultPort,
		MaxUploadMB:        DefaultMaxUploadMB,
		RateLimitPerMinute: DefaultRateLimitPerMinute,
	}
}

// EnvDefaults returns Defaults overlaid with values from the environment.
// getenv is usually os.Getenv.
func EnvDefaults(getenv func(string) string) Config {
	cfg := Defaults()
	cfg.APIKey = getenv(EnvAPIKey)
	cfg.DatabaseURL = getenv(EnvDatabaseURL)
	cfg.Template = getenv(EnvTemplate)
	return cfg
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

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.MaxUploadMB < 0 {
		return fmt.Errorf("config error: 'max_upload_mb' must be non-negative")
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("config error: 'rate_limit_per_minute' must be non-negative")
	}
	if c.Enhance && c.APIKey == "" {
		return fmt.Errorf("config error: 'enhance' requires 'api_key' or %s", EnvAPIKey)
	}

	if c.Template != "" {
		if _, err := os.Stat(c.Template); os.IsNotExist(err) {
			return fmt.Errorf("config error: template file not found: %s", c.Template)
		}
	}
	if c.OutDir != "" {
		info, err := os.Stat(c.OutDir)
		if err == nil && !info.IsDir() {
			return fmt.Errorf("config error: out_dir is not a directory: %s", c.OutDir)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file and environment values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Template == "" {
		result.Template = defaults.Template
	}
	if result.OutDir == "" {
		result.OutDir = defaults.OutDir
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Int fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.MaxUploadMB == 0 {
		result.MaxUploadMB = defaults.MaxUploadMB
	}
	if result.RateLimitPerMinute == 0 {
		result.RateLimitPerMinute = defaults.RateLimitPerMinute
	}

	// Bool fields: cannot distinguish unset from false, so only true propagates
	result.Enhance = result.Enhance || defaults.Enhance
	result.Verbose = result.Verbose || defaults.Verbose

	return result
}
