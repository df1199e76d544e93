package config

import (
	"fmt"
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
)

// Config holds all API configuration.
type Config struct {
	Server    ServerConfig   `env:"SERVER" yaml:"server"`
	Database  DatabaseConfig `env:"DB" yaml:"database"`
	Logger    LoggerConfig   `env:"LOG" yaml:"logger"`
	JWT       JWTConfig      `env:"JWT" yaml:"jwt"`
	SMTP      SMTPConfig     `env:"SMTP" yaml:"smtp"`
	Storage   StorageConfig  `env:"STORAGE" yaml:"storage"`
	CORS      CORSConfig     `env:"CORS" yaml:"cors"`
	PublicURL string         `env:"PUBLIC_URL" yaml:"public_url" default:"http://localhost:5000" usage:"Storefront base URL used in email links"`
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string `env:"HOST" yaml:"host" default:"0.0.0.0"`
	Port int    `env:"PORT" yaml:"port" usage:"defaults to 8080 for the API and 5000 for the storefront"`
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string        `env:"HOST" yaml:"host" default:"localhost"`
	Port            int           `env:"PORT" yaml:"port" default:"5432"`
	User            string        `env:"USER" yaml:"user" default:"postgres"`
	Password        string        `env:"PASSWORD" yaml:"password"`
	Database        string        `env:"NAME" yaml:"name" default:"shopfront"`
	MaxConnections  int           `env:"MAX_CONNECTIONS" yaml:"max_connections" default:"25"`
	MinConnections  int           `env:"MIN_CONNECTIONS" yaml:"min_connections" default:"5"`
	MaxConnLifetime time.Duration `env:"MAX_CONN_LIFETIME" yaml:"max_conn_lifetime" default:"5m"`
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string `env:"LEVEL" yaml:"level" default:"info"`
	Format string `env:"FORMAT" yaml:"format" default:"json" usage:"json or console"`
}

// JWTConfig holds bearer token settings.
type JWTConfig struct {
	Secret     string        `env:"SECRET" yaml:"secret" usage:"HMAC secret, at least 32 bytes"`
	Issuer     string        `env:"ISSUER" yaml:"issuer" default:"Formation-Ecommerce-API"`
	Audience   string        `env:"AUDIENCE" yaml:"audience" default:"Formation-Ecommerce-Client"`
	Expiration time.Duration `env:"EXPIRATION" yaml:"expiration" default:"60m"`
}

// SMTPConfig holds outbound mail settings. An empty Host disables SMTP and
// mail is written to the log instead.
type SMTPConfig struct {
	Host        string        `env:"HOST" yaml:"host"`
	Port        int           `env:"PORT" yaml:"port" default:"587"`
	UserName    string        `env:"USERNAME" yaml:"username"`
	Password    string        `env:"PASSWORD" yaml:"password"`
	SenderName  string        `env:"SENDER_NAME" yaml:"sender_name" default:"Formation Ecommerce"`
	SenderEmail string        `env:"SENDER_EMAIL" yaml:"sender_email" default:"no-reply@localhost"`
	EnableSSL   bool          `env:"ENABLE_SSL" yaml:"enable_ssl" default:"true"`
	Timeout     time.Duration `env:"TIMEOUT" yaml:"timeout" default:"15s"`
}

// StorageConfig holds product image storage configuration.
type StorageConfig struct {
	Root string   `env:"ROOT" yaml:"root" default:"wwwroot" usage:"Local directory holding images/products"`
	S3   S3Config `env:"S3" yaml:"s3"`
}

// S3Config holds AWS S3 configuration for product images.
type S3Config struct {
	Enabled bool   `env:"ENABLED" yaml:"enabled" default:"false"`
	Bucket  string `env:"BUCKET" yaml:"bucket"`
	Region  string `env:"REGION" yaml:"region" default:"us-east-1"`
	Prefix  string `env:"PREFIX" yaml:"prefix" default:"images/products/"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins []string `env:"ORIGINS" yaml:"origins" default:"*"`
}

// Load loads API configuration from defaults, an optional YAML file named by
// CONFIG_FILE, and environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := load(&cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func load(dst any) error {
	acfg := aconfig.Config{
		SkipFlags:          true,
		AllowUnknownFields: true,
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
			".yml":  aconfigyaml.New(),
		},
	}
	if file := os.Getenv("CONFIG_FILE"); file != "" {
		acfg.Files = []string{file}
		acfg.FailOnFileNotFound = true
	}

	if err := aconfig.LoaderFor(dst, acfg).Load(); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Server.validate(); err != nil {
		return err
	}

	if err := c.Database.validate(); err != nil {
		return err
	}

	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 bytes")
	}

	if c.JWT.Expiration <= 0 {
		return fmt.Errorf("JWT expiration must be positive")
	}

	if err := c.Logger.validate(); err != nil {
		return err
	}

	if c.SMTP.Host != "" && (c.SMTP.Port < 1 || c.SMTP.Port > 65535) {
		return fmt.Errorf("invalid SMTP port: %d", c.SMTP.Port)
	}

	if c.Storage.Root == "" {
		return fmt.Errorf("storage root is required")
	}

	if c.Storage.S3.Enabled {
		if c.Storage.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 is enabled")
		}
		if c.Storage.S3.Region == "" {
			return fmt.Errorf("S3 region is required when S3 is enabled")
		}
	}

	return nil
}

func (c *ServerConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Port)
	}
	return nil
}

func (c *DatabaseConfig) validate() error {
	if c.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Port)
	}

	if c.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.MinConnections > c.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}
	return nil
}

func (c *LoggerConfig) validate() error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level)
	}

	if c.Format != "json" && c.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Format)
	}
	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
