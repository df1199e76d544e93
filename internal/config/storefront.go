package config

import (
	"fmt"
	"net/url"
	"time"
)

// StorefrontConfig holds configuration for the server-rendered storefront.
type StorefrontConfig struct {
	Server  ServerConfig  `env:"SERVER" yaml:"server"`
	Logger  LoggerConfig  `env:"LOG" yaml:"logger"`
	API     APIConfig     `env:"API" yaml:"api"`
	Session SessionConfig `env:"SESSION" yaml:"session"`
}

// APIConfig describes how the storefront reaches the API.
type APIConfig struct {
	BaseURL string        `env:"BASE_URL" yaml:"base_url" default:"http://localhost:8080"`
	Timeout time.Duration `env:"TIMEOUT" yaml:"timeout" default:"30s"`
}

// SessionConfig controls the storefront session cookie.
type SessionConfig struct {
	Lifetime     time.Duration `env:"LIFETIME" yaml:"lifetime" default:"30m"`
	CookieSecure bool          `env:"COOKIE_SECURE" yaml:"cookie_secure" default:"false"`
}

// LoadStorefront loads storefront configuration the same way Load does.
func LoadStorefront() (*StorefrontConfig, error) {
	var cfg StorefrontConfig
	if err := load(&cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5000
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration.
func (c *StorefrontConfig) Validate() error {
	if err := c.Server.validate(); err != nil {
		return err
	}

	if err := c.Logger.validate(); err != nil {
		return err
	}

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid API base URL: %q", c.API.BaseURL)
	}

	if c.API.Timeout <= 0 {
		return fmt.Errorf("API timeout must be positive")
	}

	if c.Session.Lifetime <= 0 {
		return fmt.Errorf("session lifetime must be positive")
	}

	return nil
}
