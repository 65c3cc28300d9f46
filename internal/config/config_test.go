package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://localhost:9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Server.Port)
	}
	if cfg.Backend.BaseURL != "http://localhost:9090" {
		t.Fatalf("unexpected backend url %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Timeout != 8*time.Second {
		t.Fatalf("expected 8s backend timeout, got %s", cfg.Backend.Timeout)
	}
	if cfg.Store.Name != "Pearl Logistics" {
		t.Fatalf("expected default store name, got %q", cfg.Store.Name)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected default log level info, got %q", cfg.LogLevel)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://backend:8080")
	t.Setenv("STOREFRONT_PORT", "9999")
	t.Setenv("BACKEND_TIMEOUT", "2s")
	t.Setenv("SESSION_SECURE", "true")
	t.Setenv("STORE_NAME", "Test Store")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "9999" {
		t.Fatalf("expected port 9999, got %q", cfg.Server.Port)
	}
	if cfg.Backend.Timeout != 2*time.Second {
		t.Fatalf("expected 2s timeout, got %s", cfg.Backend.Timeout)
	}
	if !cfg.Session.Secure {
		t.Fatalf("expected secure session cookie")
	}
	if cfg.Store.Name != "Test Store" {
		t.Fatalf("expected Test Store, got %q", cfg.Store.Name)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected debug, got %q", cfg.LogLevel)
	}
}
