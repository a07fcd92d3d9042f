package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Provider variant names accepted in ProviderConfig.Variant.
const (
	VariantLegacy = "legacy"
	VariantModern = "modern"
	VariantMock   = "mock"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Provider ProviderConfig `yaml:"provider"`
	Email    EmailConfig    `yaml:"email"`
	Confirm  ConfirmConfig  `yaml:"confirm"`
	Redis    RedisConfig    `yaml:"redis"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// GetHost returns the server host, with container detection
func (c ServerConfig) GetHost() string {
	// On ECS/container, listen on all interfaces
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// ProviderConfig holds newsletter provider API configuration.
// Variant selects the client implementation: "legacy" (bearer-token v1 API),
// "modern" (client-id/secret v2 API) or "mock" (in-memory fixtures).
type ProviderConfig struct {
	Variant        string `yaml:"variant"`
	BaseURL        string `yaml:"base_url"`
	Domain         string `yaml:"domain"`
	Token          string `yaml:"token"`
	ClientID       string `yaml:"client_id"`
	ClientSecret   string `yaml:"client_secret"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the configured timeout as a duration
func (c ProviderConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate checks that the credentials required by the selected variant are present.
func (c ProviderConfig) Validate() error {
	switch c.Variant {
	case VariantLegacy:
		if c.Token == "" {
			return fmt.Errorf("provider variant %q requires token", c.Variant)
		}
		if c.BaseURL == "" || c.Domain == "" {
			return fmt.Errorf("provider variant %q requires base_url and domain", c.Variant)
		}
	case VariantModern:
		if c.ClientID == "" || c.ClientSecret == "" {
			return fmt.Errorf("provider variant %q requires client_id and client_secret", c.Variant)
		}
	case VariantMock:
	default:
		return fmt.Errorf("unknown provider variant %q", c.Variant)
	}
	return nil
}

// EmailConfig holds AWS SES configuration for the confirmation mailer
type EmailConfig struct {
	Region         string `yaml:"region"`
	AccessKey      string `yaml:"access_key"`
	SecretKey      string `yaml:"secret_key"`
	Sender         string `yaml:"sender"`
	SiteName       string `yaml:"site_name"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the configured timeout as a duration
func (c EmailConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ConfirmConfig holds settings for building confirmation links
type ConfirmConfig struct {
	// PublicBaseURL is the externally reachable origin the confirmation
	// links point at, e.g. "https://www.example.org".
	PublicBaseURL string `yaml:"public_base_url"`
}

// RedisConfig holds settings for the mailing-list options cache
type RedisConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Addr       string `yaml:"addr"`
	TTLSeconds int    `yaml:"ttl_seconds"`
}

// TTL returns the cache entry lifetime as a duration
func (c RedisConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Provider.Variant == "" {
		cfg.Provider.Variant = VariantLegacy
	}
	if cfg.Provider.TimeoutSeconds == 0 {
		cfg.Provider.TimeoutSeconds = 30
	}
	if cfg.Email.TimeoutSeconds == 0 {
		cfg.Email.TimeoutSeconds = 30
	}
	if cfg.Email.Region == "" {
		cfg.Email.Region = "us-west-2"
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Redis.TTLSeconds == 0 {
		cfg.Redis.TTLSeconds = 300
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// It loads a .env file (if present) before reading env vars, so secrets can
// live in .env locally and in real env vars on ECS.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("NEWSLETTER_VARIANT"); v != "" {
		cfg.Provider.Variant = v
	}
	if v := os.Getenv("NEWSLETTER_BASE_URL"); v != "" {
		cfg.Provider.BaseURL = v
	}
	if v := os.Getenv("NEWSLETTER_DOMAIN"); v != "" {
		cfg.Provider.Domain = v
	}
	if v := os.Getenv("NEWSLETTER_TOKEN"); v != "" {
		cfg.Provider.Token = v
	}
	if v := os.Getenv("NEWSLETTER_CLIENT_ID"); v != "" {
		cfg.Provider.ClientID = v
	}
	if v := os.Getenv("NEWSLETTER_CLIENT_SECRET"); v != "" {
		cfg.Provider.ClientSecret = v
	}
	if v := os.Getenv("AWS_SES_REGION"); v != "" {
		cfg.Email.Region = v
	}
	if v := os.Getenv("AWS_SES_ACCESS_KEY"); v != "" {
		cfg.Email.AccessKey = v
	}
	if v := os.Getenv("AWS_SES_SECRET_KEY"); v != "" {
		cfg.Email.SecretKey = v
	}
	if v := os.Getenv("EMAIL_SENDER"); v != "" {
		cfg.Email.Sender = v
	}
	if v := os.Getenv("PUBLIC_BASE_URL"); v != "" {
		cfg.Confirm.PublicBaseURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
		cfg.Redis.Enabled = true
	}

	return cfg, nil
}
