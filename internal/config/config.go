// Package config loads service configuration from JSON or TOML files and the environment.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Provider names accepted by VARIANT_PROVIDER
const (
	ProviderHeuristic = "heuristic"
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Defaults
const (
	DefaultAddr         = ":8080"
	DefaultKeywordLimit = 12
	DefaultHistorySize  = 50
	DefaultRateLimit    = 60
	DefaultConcurrency  = 3
	DefaultTimeout      = 60 * time.Second
)

// Duration is a time.Duration written as "30s" in config files
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler, used by TOML
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

// UnmarshalJSON accepts a duration string or a number of seconds
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return d.UnmarshalText([]byte(s))
	}
	var secs float64
	if err := json.Unmarshal(data, &secs); err != nil {
		return fmt.Errorf("invalid duration %s", data)
	}
	d.Duration = time.Duration(secs * float64(time.Second))
	return nil
}

// MarshalJSON writes the duration string form
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// Config holds everything needed to assemble the service.
// All fields are optional in files; Default fills the rest.
type Config struct {
	// Storage
	DatabaseURL string `json:"database_url,omitempty" toml:"database_url"` // PostgreSQL URL; wins over LibraryPath
	LibraryPath string `json:"library_path,omitempty" toml:"library_path"` // SQLite file; empty means in-memory

	// Generation
	Provider          string   `json:"provider,omitempty" toml:"provider"`
	APIKey            string   `json:"api_key,omitempty" toml:"api_key"`
	Model             string   `json:"model,omitempty" toml:"model"`       // overrides the provider's standard model
	BaseURL           string   `json:"base_url,omitempty" toml:"base_url"` // OpenAI-compatible endpoint
	GenerationTimeout Duration `json:"generation_timeout,omitempty" toml:"generation_timeout"`
	KeywordLimit      int      `json:"keyword_limit,omitempty" toml:"keyword_limit"`
	Concurrency       int      `json:"concurrency,omitempty" toml:"concurrency"`

	// Capture
	UseBrowser bool `json:"use_browser,omitempty" toml:"use_browser"`

	// Server
	Addr        string   `json:"addr,omitempty" toml:"addr"`
	CORSOrigins []string `json:"cors_origins,omitempty" toml:"cors_origins"`
	RateLimit   int      `json:"rate_limit,omitempty" toml:"rate_limit"` // requests per minute per client
	HistorySize int      `json:"history_size,omitempty" toml:"history_size"`

	// Logging
	Verbose   bool   `json:"verbose,omitempty" toml:"verbose"`
	LogFormat string `json:"log_format,omitempty" toml:"log_format"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Provider:          ProviderHeuristic,
		GenerationTimeout: Duration{DefaultTimeout},
		KeywordLimit:      DefaultKeywordLimit,
		Concurrency:       DefaultConcurrency,
		Addr:              DefaultAddr,
		CORSOrigins:       []string{"*"},
		RateLimit:         DefaultRateLimit,
		HistorySize:       DefaultHistorySize,
		LogFormat:         "text",
	}
}

// LoadConfig loads configuration from a JSON or, by extension, TOML file
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

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
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config TOML: %w", err)
		}
		return &cfg, nil
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	return &cfg, nil
}

// ApplyEnv overlays environment variables read through getenv
func (c *Config) ApplyEnv(getenv func(string) string) error {
	setString := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.LibraryPath, "LIBRARY_PATH")
	setString(&c.Provider, "VARIANT_PROVIDER")
	setString(&c.BaseURL, "OPENAI_BASE_URL")
	setString(&c.Addr, "VARIANT_ADDR")

	if v := strings.TrimSpace(getenv("GENERATION_TIMEOUT")); v != "" {
		if err := c.GenerationTimeout.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("config error: GENERATION_TIMEOUT: %w", err)
		}
	}
	if v := strings.TrimSpace(getenv("KEYWORD_LIMIT")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: KEYWORD_LIMIT must be an integer: %w", err)
		}
		c.KeywordLimit = n
	}

	if c.APIKey == "" {
		if key := apiKeyEnv(c.Provider); key != "" {
			c.APIKey = strings.TrimSpace(getenv(key))
		}
	}
	return nil
}

func apiKeyEnv(provider string) string {
	switch provider {
	case ProviderGemini:
		return "GEMINI_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return ""
	}
}

// Validate checks that the configuration has valid values
func (c *Config) Validate() error {
	switch c.Provider {
	case "", ProviderHeuristic:
	case ProviderGemini, ProviderOpenAI, ProviderAnthropic:
		if c.APIKey == "" {
			return fmt.Errorf("config error: provider %q requires an API key (set %s)", c.Provider, apiKeyEnv(c.Provider))
		}
	default:
		return fmt.Errorf("config error: unknown provider %q", c.Provider)
	}

	if c.KeywordLimit < 0 {
		return fmt.Errorf("config error: 'keyword_limit' must be non-negative")
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("config error: 'concurrency' must be non-negative")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("config error: 'rate_limit' must be non-negative")
	}
	if c.HistorySize < 0 {
		return fmt.Errorf("config error: 'history_size' must be non-negative")
	}
	if c.GenerationTimeout.Duration < 0 {
		return fmt.Errorf("config error: 'generation_timeout' must be non-negative")
	}
	if c.DatabaseURL != "" && !strings.HasPrefix(c.DatabaseURL, "postgres://") && !strings.HasPrefix(c.DatabaseURL, "postgresql://") {
		return fmt.Errorf("config error: 'database_url' must be a postgres:// URL")
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero fields filled from defaults
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.LibraryPath == "" {
		result.LibraryPath = defaults.LibraryPath
	}
	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.BaseURL == "" {
		result.BaseURL = defaults.BaseURL
	}
	if result.Addr == "" {
		result.Addr = defaults.Addr
	}
	if result.LogFormat == "" {
		result.LogFormat = defaults.LogFormat
	}
	if len(result.CORSOrigins) == 0 {
		result.CORSOrigins = defaults.CORSOrigins
	}

	if result.GenerationTimeout.Duration == 0 {
		result.GenerationTimeout = defaults.GenerationTimeout
	}
	if result.KeywordLimit == 0 {
		result.KeywordLimit = defaults.KeywordLimit
	}
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}
	if result.RateLimit == 0 {
		result.RateLimit = defaults.RateLimit
	}
	if result.HistorySize == 0 {
		result.HistorySize = defaults.HistorySize
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Load reads path (if non-empty), overlays the environment, fills defaults and validates
func Load(path string, getenv func(string) string) (Config, error) {
	var cfg Config
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
		cfg = *loaded
	}
	if err := cfg.ApplyEnv(getenv); err != nil {
		return Config{}, err
	}
	cfg = cfg.MergeWithDefaults(Default())
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
