// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Defaults for tunables that have sensible values without configuration.
const (
	DefaultRequestDelay     = 1 * time.Second
	DefaultMaxRetries       = 5
	DefaultOpenFoodFactsURL = "https://world.openfoodfacts.org/api/v0/product/"
	DefaultOutputDir        = "output"
)

// Config holds everything the enrichment pipeline needs. All fields are
// optional; missing credentials degrade the corresponding adapter rather
// than aborting startup.
type Config struct {
	// Paths
	Input     string `json:"input,omitempty"`
	OutputDir string `json:"output_dir,omitempty"`

	// Source credentials
	GoogleAPIKey       string `json:"google_api_key,omitempty"`
	GoogleCX           string `json:"google_search_cx,omitempty"`
	DigitEyesAppKey    string `json:"digiteyes_app_key,omitempty"`
	DigitEyesSignature string `json:"digiteyes_signature,omitempty"`

	// Generative service credentials
	GeminiAPIKey   string `json:"gemini_api_key,omitempty"`
	OpenAIAPIKey   string `json:"openai_api_key,omitempty"`
	DeepSeekAPIKey string `json:"deepseek_api_key,omitempty"`

	// Tuning
	RequestDelaySeconds float64 `json:"api_request_delay,omitempty" validate:"gte=0"`
	MaxRetries          int     `json:"max_retries,omitempty" validate:"gte=0"`
	OpenFoodFactsURL    string  `json:"openfoodfacts_url,omitempty" validate:"omitempty,url"`

	// HealthReprobeSeconds > 0 re-enables a disabled generative provider
	// after the given interval. Zero keeps the disable permanent for the
	// process lifetime, matching the default behavior.
	HealthReprobeSeconds float64 `json:"health_reprobe_seconds,omitempty" validate:"gte=0"`

	// Optional Postgres mirror of finished records.
	DatabaseURL string `json:"database_url,omitempty"`

	Verbose bool `json:"verbose,omitempty"`
}

// Load reads configuration from a JSON file.
func Load(path string) (*Config, error) {
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
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv builds a Config from environment variables. godotenv has already
// populated the environment from .env by the time this runs.
func FromEnv() Config {
	return Config{
		GoogleAPIKey:         os.Getenv("GOOGLE_API_KEY"),
		GoogleCX:             os.Getenv("GOOGLE_SEARCH_CX"),
		DigitEyesAppKey:      os.Getenv("DIGITEYES_APP_KEY"),
		DigitEyesSignature:   os.Getenv("DIGITEYES_SIGNATURE"),
		GeminiAPIKey:         os.Getenv("GEMINI_API_KEY"),
		OpenAIAPIKey:         os.Getenv("OPENAI_API_KEY"),
		DeepSeekAPIKey:       os.Getenv("DEEPSEEK_API_KEY"),
		RequestDelaySeconds:  envFloat("API_REQUEST_DELAY"),
		MaxRetries:           envInt("MAX_RETRIES"),
		OpenFoodFactsURL:     os.Getenv("OPENFOODFACTS_URL"),
		HealthReprobeSeconds: envFloat("HEALTH_REPROBE_SECONDS"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
	}
}

// Validate checks numeric ranges and URL shapes via struct tags.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if c.Input != "" {
		if _, err := os.Stat(c.Input); os.IsNotExist(err) {
			return fmt.Errorf("config error: input file not found: %s", c.Input)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. CLI flags win over config file values, which win over env vars.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Input == "" {
		result.Input = defaults.Input
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.GoogleAPIKey == "" {
		result.GoogleAPIKey = defaults.GoogleAPIKey
	}
	if result.GoogleCX == "" {
		result.GoogleCX = defaults.GoogleCX
	}
	if result.DigitEyesAppKey == "" {
		result.DigitEyesAppKey = defaults.DigitEyesAppKey
	}
	if result.DigitEyesSignature == "" {
		result.DigitEyesSignature = defaults.DigitEyesSignature
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.OpenAIAPIKey == "" {
		result.OpenAIAPIKey = defaults.OpenAIAPIKey
	}
	if result.DeepSeekAPIKey == "" {
		result.DeepSeekAPIKey = defaults.DeepSeekAPIKey
	}
	if result.OpenFoodFactsURL == "" {
		result.OpenFoodFactsURL = defaults.OpenFoodFactsURL
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RequestDelaySeconds == 0 {
		result.RequestDelaySeconds = defaults.RequestDelaySeconds
	}
	if result.MaxRetries == 0 {
		result.MaxRetries = defaults.MaxRetries
	}
	if result.HealthReprobeSeconds == 0 {
		result.HealthReprobeSeconds = defaults.HealthReprobeSeconds
	}

	// Bool fields cannot distinguish unset from false, so CLI flags win.

	return result
}

// ApplyDefaults fills remaining zero values with package defaults.
func (c *Config) ApplyDefaults() {
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.RequestDelaySeconds == 0 {
		c.RequestDelaySeconds = DefaultRequestDelay.Seconds()
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.OpenFoodFactsURL == "" {
		c.OpenFoodFactsURL = DefaultOpenFoodFactsURL
	}
}

// RequestDelay returns the inter-request delay as a duration.
func (c *Config) RequestDelay() time.Duration {
	return time.Duration(c.RequestDelaySeconds * float64(time.Second))
}

// HealthReprobe returns the provider re-probe interval, zero when disabled.
func (c *Config) HealthReprobe() time.Duration {
	return time.Duration(c.HealthReprobeSeconds * float64(time.Second))
}

// MissingCredentials lists env-style names of credentials that are absent.
// The pipeline logs these at startup; the adapters involved stay disabled.
func (c *Config) MissingCredentials() []string {
	var missing []string
	checks := []struct {
		name  string
		value string
	}{
		{"GOOGLE_API_KEY", c.GoogleAPIKey},
		{"GOOGLE_SEARCH_CX", c.GoogleCX},
		{"DIGITEYES_APP_KEY", c.DigitEyesAppKey},
		{"DIGITEYES_SIGNATURE", c.DigitEyesSignature},
		{"GEMINI_API_KEY", c.GeminiAPIKey},
		{"OPENAI_API_KEY", c.OpenAIAPIKey},
		{"DEEPSEEK_API_KEY", c.DeepSeekAPIKey},
	}
	for _, chk := range checks {
		if chk.value == "" {
			missing = append(missing, chk.name)
		}
	}
	return missing
}

func envFloat(key string) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return 0
}

func envInt(key string) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 0
}
