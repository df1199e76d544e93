package config

import "fmt"

// SeedConfig holds what the seed tool needs: the database, logging and the
// region used for s3:// seed files.
type SeedConfig struct {
	Database DatabaseConfig `env:"DB" yaml:"database"`
	Logger   LoggerConfig   `env:"LOG" yaml:"logger"`
	S3Region string         `env:"SEED_S3_REGION" yaml:"seed_s3_region" default:"us-east-1"`
}

// LoadSeed loads seed tool configuration the same way Load does.
func LoadSeed() (*SeedConfig, error) {
	var cfg SeedConfig
	if err := load(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration.
func (c *SeedConfig) Validate() error {
	if err := c.Database.validate(); err != nil {
		return err
	}
	return c.Logger.validate()
}
