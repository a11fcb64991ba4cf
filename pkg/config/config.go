// Package config holds the runtime settings for a scoring run: external
// service identification, timeouts, factor weights, lookback windows and
// projection betas. Settings load from a YAML file with env overrides for
// the secrets-adjacent fields.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"

	"github.com/jasaka-rm/casandra/pkg/core/scoring"
	"github.com/jasaka-rm/casandra/pkg/models"
)

// Config is the full runtime configuration.
type Config struct {
	// UserAgent identifies this tool to SEC EDGAR and Nominatim, both of
	// which require a contactable identification string.
	UserAgent string `yaml:"user_agent" validate:"required"`

	// RequestTimeoutSeconds bounds every external call.
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds" validate:"gt=0"`

	// RequestDelaySeconds is the polite pause between successive SEC
	// requests.
	RequestDelaySeconds int `yaml:"request_delay_seconds" validate:"gte=0"`

	// MaxProperties caps how many extracted addresses are geocoded.
	MaxProperties int `yaml:"max_properties" validate:"gte=0"`

	// CarbonCSV optionally points at the curated emissions dataset.
	CarbonCSV string `yaml:"carbon_csv"`

	// Weights are the factor weights; they are normalized before use, so
	// any non-negative values work.
	Weights scoring.Weights `yaml:"weights"`

	// Betas are the maximum proportional price moves per horizon.
	Betas map[models.Horizon]float64 `yaml:"betas"`
}

// Default returns the baseline configuration: equal factor weights and the
// standard 10/20/30% horizon betas.
func Default() Config {
	return Config{
		UserAgent:             "Casandra ESG Research (contact@jasaka-rm.dev)",
		RequestTimeoutSeconds: 30,
		RequestDelaySeconds:   2,
		MaxProperties:         10,
		Weights:               scoring.DefaultWeights(),
		Betas: map[models.Horizon]float64{
			models.Horizon1Y:  0.10,
			models.Horizon5Y:  0.20,
			models.Horizon10Y: 0.30,
		},
	}
}

// Load reads a YAML config file over the defaults and validates the
// result. A missing path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv lets the environment override identification settings, matching
// how deployments keep contact details out of checked-in config.
func (c *Config) applyEnv() {
	if ua := os.Getenv("CASANDRA_USER_AGENT"); ua != "" {
		c.UserAgent = ua
	}
	if csv := os.Getenv("CASANDRA_CARBON_CSV"); csv != "" {
		c.CarbonCSV = csv
	}
}

// Validate checks structural constraints.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	for h, b := range c.Betas {
		if b < 0 {
			return fmt.Errorf("invalid config: beta for %s is negative", h)
		}
	}
	return nil
}

// RequestTimeout returns the per-call timeout as a duration.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// RequestDelay returns the SEC inter-request pause as a duration.
func (c Config) RequestDelay() time.Duration {
	return time.Duration(c.RequestDelaySeconds) * time.Second
}
