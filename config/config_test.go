package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	cfg := Config{
		Name: "nazonexus-api",
		JWT:  JWTConfig{KeyPath: "/tmp/private.pem"},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()

	if cfg.Environment != "development" {
		t.Errorf("expected environment 'development', got %q", cfg.Environment)
	}
	if !cfg.Debug {
		t.Error("expected debug=true for development")
	}
	if cfg.JWT.Issuer != "nazonexus" {
		t.Errorf("expected default issuer 'nazonexus', got %q", cfg.JWT.Issuer)
	}
	if cfg.JWT.LifetimeHours != 1 {
		t.Errorf("expected default lifetime 1h, got %d", cfg.JWT.LifetimeHours)
	}
	if cfg.Cache.Capacity != 256 {
		t.Errorf("expected default capacity 256, got %d", cfg.Cache.Capacity)
	}
	if cfg.Cache.MaxTTL != time.Hour {
		t.Errorf("expected default max ttl 1h, got %s", cfg.Cache.MaxTTL)
	}
	if cfg.Password.MinLength != 6 || cfg.Password.MaxLength != 128 {
		t.Errorf("expected password bounds [6,128], got [%d,%d]",
			cfg.Password.MinLength, cfg.Password.MaxLength)
	}
}

func TestJWTLifetime(t *testing.T) {
	jc := JWTConfig{LifetimeHours: 2}
	if jc.Lifetime() != 2*time.Hour {
		t.Errorf("expected 2h, got %s", jc.Lifetime())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing name", func(c *Config) { c.Name = "" }, "name is required"},
		{"bad environment", func(c *Config) { c.Environment = "qa" }, "environment must be one of"},
		{"missing issuer", func(c *Config) { c.JWT.Issuer = "" }, "jwt.issuer is required"},
		{"zero lifetime", func(c *Config) { c.JWT.LifetimeHours = -1 }, "jwt.lifetime_hours"},
		{"missing key path", func(c *Config) { c.JWT.KeyPath = "" }, "jwt.key_path is required"},
		{"zero capacity", func(c *Config) { c.Cache.Capacity = -1 }, "cache.capacity"},
		{"inverted bounds", func(c *Config) { c.Password.MaxLength = 3 }, "password.max_length"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				if err != nil {
					t.Errorf("expected valid config, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("expected error containing %q, got %q", tt.errMsg, err.Error())
			}
		})
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := `
name: nazonexus-api
environment: production
jwt:
  issuer: nazonexus
  lifetime_hours: 2
  key_path: /var/lib/nazonexus/secret/private.pem
cache:
  capacity: 128
  max_ttl: 30m
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(WithConfigFile(path))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.JWT.LifetimeHours != 2 {
		t.Errorf("expected lifetime 2, got %d", cfg.JWT.LifetimeHours)
	}
	if cfg.Cache.Capacity != 128 {
		t.Errorf("expected capacity 128, got %d", cfg.Cache.Capacity)
	}
	if cfg.Cache.MaxTTL != 30*time.Minute {
		t.Errorf("expected max ttl 30m, got %s", cfg.Cache.MaxTTL)
	}
	if cfg.Debug {
		t.Error("expected debug=false in production")
	}
}

func TestLoad_InvalidConfigFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	// Missing jwt.key_path: must be rejected at load time.
	content := `
name: nazonexus-api
environment: production
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(WithConfigFile(path)); err == nil {
		t.Fatal("expected validation error for missing key path")
	}
}
