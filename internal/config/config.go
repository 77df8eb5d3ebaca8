// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/manuscript-editor/internal/schemas"
)

// Environment variables read by FromEnv
const (
	EnvAPIKey        = "GEMINI_API_KEY"
	EnvModel         = "MANUSCRIPT_MODEL"
	EnvOutputDir     = "MANUSCRIPT_OUTPUT_DIR"
	EnvFailurePolicy = "MANUSCRIPT_FAILURE_POLICY"
)

// Defaults applied by MergeWithDefaults
const (
	DefaultModel     = "flash"
	DefaultPort      = 8080
	DefaultOutputDir = "manuscripts"
	DefaultPolicy    = "proceed"
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	APIKey        string `json:"api_key,omitempty"`                                                 // Gemini API key
	Model         string `json:"model,omitempty" validate:"omitempty,max=64"`                       // Model selector ("flash", "pro") or model name
	Port          int    `json:"port,omitempty" validate:"gte=0,lte=65535"`                         // HTTP port for serve
	OutputDir     string `json:"output_dir,omitempty"`                                              // Directory for exported files
	FailurePolicy string `json:"failure_policy,omitempty" validate:"omitempty,oneof=proceed block"` // Whether a failed stage blocks advancing
	Verbose       bool   `json:"verbose,omitempty"`                                                 // Print detailed debug information
	PDF           bool   `json:"pdf,omitempty"`                                                     // Also export the final manuscript as PDF
}

// LoadConfig loads configuration from a JSON file.
// The file is checked against the embedded JSON Schema before it is parsed.
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
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := schemas.ValidateConfig(data); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// FromEnv returns a Config populated from environment variables.
func FromEnv() Config {
	return Config{
		APIKey:        os.Getenv(EnvAPIKey),
		Model:         os.Getenv(EnvModel),
		OutputDir:     os.Getenv(EnvOutputDir),
		FailurePolicy: os.Getenv(EnvFailurePolicy),
	}
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults
// and then from the built-in defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.FailurePolicy == "" {
		result.FailurePolicy = defaults.FailurePolicy
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	// Built-in defaults
	if result.Model == "" {
		result.Model = DefaultModel
	}
	if result.OutputDir == "" {
		result.OutputDir = DefaultOutputDir
	}
	if result.FailurePolicy == "" {
		result.FailurePolicy = DefaultPolicy
	}
	if result.Port == 0 {
		result.Port = DefaultPort
	}

	// Bool fields: cannot distinguish unset from false, so we OR them
	result.Verbose = result.Verbose || defaults.Verbose
	result.PDF = result.PDF || defaults.PDF

	return result
}

// Resolve loads the optional config file at path, fills gaps from the
// environment and built-in defaults, and validates the result.
func Resolve(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	merged := cfg.MergeWithDefaults(FromEnv())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}
