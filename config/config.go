package config

import (
	"fmt"
	"time"

	"github.com/nazonexus/identity/logger"
)

// Config is the root configuration for the identity service.
type Config struct {
	Name        string `yaml:"name" mapstructure:"name"`
	Environment string `yaml:"environment" mapstructure:"environment"`
	Debug       bool   `yaml:"debug" mapstructure:"debug"`

	Logging  logger.Config  `yaml:"logging" mapstructure:"logging"`
	JWT      JWTConfig      `yaml:"jwt" mapstructure:"jwt"`
	Cache    CacheConfig    `yaml:"cache" mapstructure:"cache"`
	Password PasswordConfig `yaml:"password" mapstructure:"password"`
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
}

// JWTConfig configures token issuance and verification.
type JWTConfig struct {
	// Issuer is the iss claim stamped on every token and required on verify.
	Issuer string `yaml:"issuer" mapstructure:"issuer"`
	// LifetimeHours is the token lifetime in hours.
	LifetimeHours int `yaml:"lifetime_hours" mapstructure:"lifetime_hours"`
	// KeyPath is where the Ed25519 private key is persisted.
	KeyPath string `yaml:"key_path" mapstructure:"key_path"`
}

// Lifetime returns the configured token lifetime as a duration.
func (c *JWTConfig) Lifetime() time.Duration {
	return time.Duration(c.LifetimeHours) * time.Hour
}

// Defaults for the identity cache. Exported so the cache package can fall
// back to them when constructed outside the config loader.
const (
	DefaultCacheCapacity = 256
	DefaultCacheMaxTTL   = time.Hour
)

// CacheConfig configures the identity cache.
type CacheConfig struct {
	// Capacity bounds the number of cached identities.
	Capacity int `yaml:"capacity" mapstructure:"capacity"`
	// MaxTTL caps how long an entry may live regardless of token expiry.
	MaxTTL time.Duration `yaml:"max_ttl" mapstructure:"max_ttl"`
}

// PasswordConfig configures Argon2id hashing and password length bounds.
type PasswordConfig struct {
	Time      uint32 `yaml:"time" mapstructure:"time"`
	Memory    uint32 `yaml:"memory" mapstructure:"memory"`
	Threads   uint8  `yaml:"threads" mapstructure:"threads"`
	MinLength int    `yaml:"min_length" mapstructure:"min_length"`
	MaxLength int    `yaml:"max_length" mapstructure:"max_length"`
}

// DatabaseConfig configures the user store connection.
type DatabaseConfig struct {
	DSN          string `yaml:"dsn" mapstructure:"dsn"`
	MaxOpenConns int    `yaml:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Address string `yaml:"address" mapstructure:"address"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	c.Logging.ApplyDefaults()

	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "nazonexus"
	}
	if c.JWT.LifetimeHours == 0 {
		c.JWT.LifetimeHours = 1
	}
	if c.Cache.Capacity == 0 {
		c.Cache.Capacity = DefaultCacheCapacity
	}
	if c.Cache.MaxTTL == 0 {
		c.Cache.MaxTTL = DefaultCacheMaxTTL
	}
	if c.Password.Time == 0 {
		c.Password.Time = 3
	}
	if c.Password.Memory == 0 {
		c.Password.Memory = 64 * 1024
	}
	if c.Password.Threads == 0 {
		c.Password.Threads = 4
	}
	if c.Password.MinLength == 0 {
		c.Password.MinLength = 6
	}
	if c.Password.MaxLength == 0 {
		c.Password.MaxLength = 128
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Server.Address == "" {
		c.Server.Address = ":8080"
	}
}

// Validate checks the configuration. It is called once at load time; a failure
// here prevents startup.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	validEnvs := []string{"development", "staging", "production"}
	envOK := false
	for _, v := range validEnvs {
		if c.Environment == v {
			envOK = true
			break
		}
	}
	if !envOK {
		return fmt.Errorf("environment must be one of %v (got: %s)", validEnvs, c.Environment)
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if c.JWT.Issuer == "" {
		return fmt.Errorf("jwt.issuer is required")
	}
	if c.JWT.LifetimeHours < 1 {
		return fmt.Errorf("jwt.lifetime_hours must be >= 1 (got: %d)", c.JWT.LifetimeHours)
	}
	if c.JWT.KeyPath == "" {
		return fmt.Errorf("jwt.key_path is required")
	}
	if c.Cache.Capacity < 1 {
		return fmt.Errorf("cache.capacity must be >= 1 (got: %d)", c.Cache.Capacity)
	}
	if c.Cache.MaxTTL <= 0 {
		return fmt.Errorf("cache.max_ttl must be positive (got: %s)", c.Cache.MaxTTL)
	}
	if c.Password.MinLength < 1 {
		return fmt.Errorf("password.min_length must be >= 1 (got: %d)", c.Password.MinLength)
	}
	if c.Password.MaxLength < c.Password.MinLength {
		return fmt.Errorf("password.max_length must be >= min_length (got: %d < %d)",
			c.Password.MaxLength, c.Password.MinLength)
	}
	return nil
}
