package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds the remote meal service client configuration.
type Config struct {
	// Remote API
	BaseURL        string        `env:"MEALS_API_BASE_URL" envDefault:"http://localhost:4000/api"`
	RequestTimeout time.Duration `env:"MEALS_API_TIMEOUT" envDefault:"10s"`
	UserAgent      string        `env:"MEALS_API_USER_AGENT" envDefault:"mealtrack-go/1.0"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// LoadConfig loads configuration from environment variables and applies
// defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse meals config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration consistency.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("MEALS_API_BASE_URL must be an http or https URL, got %q", c.BaseURL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("MEALS_API_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	return nil
}
