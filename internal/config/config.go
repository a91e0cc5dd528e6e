// Package config loads storefront settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const EnvProduction = "production"

type Config struct {
	HTTPAddr string `env:"STOREFRONT_HTTP_ADDR" envDefault:"localhost:3000"`
	Env      string `env:"STOREFRONT_ENV" envDefault:"development"`

	StoreDomain string `env:"SHOPIFY_STORE_DOMAIN,required,notEmpty"`
	AccessToken string `env:"SHOPIFY_STOREFRONT_ACCESS_TOKEN"`
	APIVersion  string `env:"SHOPIFY_API_VERSION" envDefault:"2024-01"`

	RequestTimeout time.Duration `env:"STOREFRONT_REQUEST_TIMEOUT" envDefault:"10s"`
	ReadRetries    uint          `env:"STOREFRONT_READ_RETRIES" envDefault:"0"`

	// CacheDSN selects the PostgreSQL cart cache. Empty keeps the cache in memory.
	CacheDSN string        `env:"STOREFRONT_CACHE_DSN"`
	CacheTTL time.Duration `env:"STOREFRONT_CACHE_TTL" envDefault:"5m"`
}

// Production reports whether secure cookies and production logging apply.
func (c Config) Production() bool {
	return c.Env == EnvProduction
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses the storefront configuration.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.RequestTimeout <= 0 {
		return Config{}, fmt.Errorf("request timeout must be positive, got %s", cfg.RequestTimeout)
	}
	return cfg, nil
}
