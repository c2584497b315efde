// Package config provides configuration management.
//
// All settings come from environment variables, optionally seeded from a
// .env file in the working directory.
package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"bom-cogs/internal/errors"
	"bom-cogs/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Cofactr contains pricing API credentials and endpoint settings
	Cofactr CofactrConfig

	// Logging contains logging configuration
	Logging logging.Config
}

// CofactrConfig contains Cofactr API settings
type CofactrConfig struct {
	// APIKey is sent as the X-API-KEY header
	APIKey string `env:"COFACTR_API_KEY"`

	// ClientID is sent as the X-CLIENT-ID header
	ClientID string `env:"COFACTR_CLIENT_ID"`

	// BaseURL is the API endpoint
	BaseURL string `env:"COFACTR_BASE_URL" envDefault:"https://graph.cofactr.com"`

	// TimeoutSeconds bounds each pricing request
	TimeoutSeconds int `env:"COFACTR_TIMEOUT" envDefault:"30"`

	// Workers bounds the number of concurrent pricing lookups
	Workers int `env:"COFACTR_WORKERS" envDefault:"4"`
}

// Validate checks that credentials are present before any lookup is attempted
func (c CofactrConfig) Validate() error {
	if c.APIKey == "" || c.ClientID == "" {
		return errors.Config(
			"please set the COFACTR_API_KEY and COFACTR_CLIENT_ID environment variables")
	}
	return nil
}

// Load loads environment files and parses configuration
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, errors.Wrap(errors.TypeConfig, "parsing environment", err)
	}

	return &cfg, nil
}
