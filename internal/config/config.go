// Package config provides configuration loading and validation for the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// AppName is the application name used for XDG directory paths.
const AppName = "researchscope"

// DefaultConfigFile is the configuration file name inside the XDG config directory.
const DefaultConfigFile = "config.yaml"

// Defaults for values not set in the file or environment.
const (
	DefaultAddress = "localhost"
	DefaultPort    = 8501
	DefaultTimeout = 30 * time.Second

	DefaultTemperature float32 = 0.7
)

// Search backends.
const (
	BackendScholar = "scholar"
	BackendCustom  = "custom"
)

var (
	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")
	// ErrMissingAPIKey is returned when no model API key is configured.
	ErrMissingAPIKey = errors.New("missing API key: set GOOGLE_API_KEY in the environment or a .env file")
)

// Config represents the application configuration. It is loaded from a YAML
// (or JSON) file and then overridden by environment variables.
type Config struct {
	// Model
	APIKey      string   `json:"api_key,omitempty" yaml:"api_key,omitempty"`         // Gemini API key
	Model       string   `json:"model,omitempty" yaml:"model,omitempty"`             // Pin every stage to one model
	Temperature *float32 `json:"temperature,omitempty" yaml:"temperature,omitempty" validate:"omitempty,gte=0,lte=2"`

	// Search
	SearchBackend   string        `json:"search_backend,omitempty" yaml:"search_backend,omitempty" validate:"omitempty,oneof=scholar custom"`
	SearchURL       string        `json:"search_url,omitempty" yaml:"search_url,omitempty" validate:"omitempty,url"`
	SearchAPIKey    string        `json:"search_api_key,omitempty" yaml:"search_api_key,omitempty"`
	SearchCX        string        `json:"search_cx,omitempty" yaml:"search_cx,omitempty"`
	MaxResults      int           `json:"max_results,omitempty" yaml:"max_results,omitempty" validate:"gte=0,lte=10"`
	MaxQueryTerms   int           `json:"max_query_terms,omitempty" yaml:"max_query_terms,omitempty" validate:"gte=0,lte=20"`
	UseBrowser      bool          `json:"use_browser,omitempty" yaml:"use_browser,omitempty"`
	BrowserFallback bool          `json:"browser_fallback,omitempty" yaml:"browser_fallback,omitempty"`
	Timeout         time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty" validate:"gte=0"`

	// Server
	Address string `json:"address,omitempty" yaml:"address,omitempty"`
	Port    int    `json:"port,omitempty" yaml:"port,omitempty" validate:"gte=0,lte=65535"`

	Verbose bool `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	temperature := DefaultTemperature
	return Config{
		Temperature: &temperature,
		MaxResults:  5,
		Timeout:     DefaultTimeout,
		Address:     DefaultAddress,
		Port:        DefaultPort,
	}
}

// DefaultPath returns the XDG location of the configuration file.
// On Linux: ~/.config/researchscope/config.yaml
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, DefaultConfigFile)
}

// LoadConfig loads configuration from a YAML or JSON file.
// Returns ErrConfigNotFound (wrapped) if the file does not exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return &cfg, nil
}

// Load resolves the effective configuration: the file at path (or the XDG
// default, which may be absent), then environment overrides, then defaults.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		if explicit || !errors.Is(err, ErrConfigNotFound) {
			return nil, err
		}
		cfg = &Config{}
	}

	cfg.ApplyEnv(os.LookupEnv)
	merged := cfg.MergeWithDefaults(Default())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// ApplyEnv overrides fields from environment variables. A non-empty variable
// always wins over the file value.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	get := func(keys ...string) string {
		for _, key := range keys {
			if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
		return ""
	}

	if v := get("GOOGLE_API_KEY", "GEMINI_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := get("RESEARCHSCOPE_MODEL"); v != "" {
		c.Model = v
	}
	if v := get("GOOGLE_SEARCH_API_KEY"); v != "" {
		c.SearchAPIKey = v
	}
	if v := get("GOOGLE_SEARCH_CX"); v != "" {
		c.SearchCX = v
	}
	if v := get("RESEARCHSCOPE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
}

// Validate checks that the configuration has valid values.
// Note: the API key is not required here; commands that call the model
// check it with RequireAPIKey.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %s", describeValidation(err))
	}

	if c.Backend() == BackendCustom && (c.SearchAPIKey == "" || c.SearchCX == "") {
		return fmt.Errorf("config error: the custom search backend needs search_api_key and search_cx")
	}
	return nil
}

// RequireAPIKey returns ErrMissingAPIKey when no model API key is set.
func (c *Config) RequireAPIKey() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// Backend returns the search backend to use. Without an explicit choice the
// custom backend is used whenever its credentials are present.
func (c *Config) Backend() string {
	if c.SearchBackend != "" {
		return c.SearchBackend
	}
	if c.SearchAPIKey != "" && c.SearchCX != "" {
		return BackendCustom
	}
	return BackendScholar
}

// SamplingTemperature returns the configured temperature, or
// DefaultTemperature when none was set.
func (c *Config) SamplingTemperature() float32 {
	if c.Temperature == nil {
		return DefaultTemperature
	}
	return *c.Temperature
}

// ListenAddr returns the host:port the server binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Address, c.Port)
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.SearchBackend == "" {
		result.SearchBackend = defaults.SearchBackend
	}
	if result.SearchURL == "" {
		result.SearchURL = defaults.SearchURL
	}
	if result.SearchAPIKey == "" {
		result.SearchAPIKey = defaults.SearchAPIKey
	}
	if result.SearchCX == "" {
		result.SearchCX = defaults.SearchCX
	}
	if result.Address == "" {
		result.Address = defaults.Address
	}

	// Pointer fields: use default only if unset, so an explicit 0 survives
	if result.Temperature == nil && defaults.Temperature != nil {
		t := *defaults.Temperature
		result.Temperature = &t
	}

	// Numeric fields: use default if zero
	if result.MaxResults == 0 {
		result.MaxResults = defaults.MaxResults
	}
	if result.MaxQueryTerms == 0 {
		result.MaxQueryTerms = defaults.MaxQueryTerms
	}
	if result.Timeout == 0 {
		result.Timeout = defaults.Timeout
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// describeValidation turns validator errors into a readable message.
func describeValidation(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return err.Error()
	}
	parts := make([]string, 0, len(validationErrors))
	for _, ve := range validationErrors {
		parts = append(parts, fmt.Sprintf("%s failed %s", ve.Field(), ve.Tag()))
	}
	return strings.Join(parts, "; ")
}
