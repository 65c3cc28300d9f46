package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config captures all runtime configuration for the storefront service.
type Config struct {
	Server   ServerConfig
	Backend  BackendConfig
	Session  SessionConfig
	Store    StoreConfig
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port         string        `envconfig:"STOREFRONT_PORT" default:"8080"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout  time.Duration `envconfig:"STOREFRONT_IDLE_TIMEOUT" default:"60s"`
}

// BackendConfig points at the external REST backend, the system of record.
type BackendConfig struct {
	BaseURL string        `envconfig:"BACKEND_URL" required:"true"`
	Timeout time.Duration `envconfig:"BACKEND_TIMEOUT" default:"8s"`
}

// SessionConfig controls the signed identity cookie.
type SessionConfig struct {
	SigningKey string `envconfig:"SESSION_SIGNING_KEY"`
	Secure     bool   `envconfig:"SESSION_SECURE" default:"false"`
}

// StoreConfig carries branding used on rendered invoices.
type StoreConfig struct {
	Name    string `envconfig:"STORE_NAME" default:"Pearl Logistics"`
	Tagline string `envconfig:"STORE_TAGLINE" default:"Your Trusted Shipping Partner"`
	Support string `envconfig:"STORE_SUPPORT_EMAIL" default:"support@pearllogistics.com"`
}

// Load reads an optional .env file and resolves the configuration from the
// environment. Missing required values fail fast.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: process environment: %w", err)
	}
	return &cfg, nil
}
