package config

import (
	"fmt"
	"net/netip"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"golang.org/x/crypto/bcrypt"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
}

type ServerConfig struct {
	Port            string        `envconfig:"SERVER_PORT" default:"8080"`
	Env             string        `envconfig:"SERVER_ENV" default:"dev"` // dev or prod
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"10s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"15s"`
	TrustedOrigins  []string      `envconfig:"SERVER_TRUSTED_ORIGINS" default:"http://localhost:3000"`

	// Peers (IPs or CIDRs) whose X-Forwarded-For / X-Real-IP headers are
	// believed. Empty means forwarding headers are ignored.
	TrustedProxies []string `envconfig:"SERVER_TRUSTED_PROXIES"`
}

type DatabaseConfig struct {
	Driver       string `envconfig:"DB_DRIVER" default:"postgres"`
	Host         string `envconfig:"DB_HOST" default:"localhost"`
	Port         string `envconfig:"DB_PORT" default:"5432"`
	User         string `envconfig:"DB_USER" default:"postgres"`
	Password     string `envconfig:"DB_PASSWORD" default:"postgres"`
	DBName       string `envconfig:"DB_NAME" default:"courses"`
	SSLMode      string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenConns int    `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns int    `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`

	MongoURI      string `envconfig:"DB_MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDatabase string `envconfig:"DB_MONGO_DATABASE" default:"courses"`
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type AuthConfig struct {
	BcryptCost int `envconfig:"AUTH_BCRYPT_COST" default:"10"`

	// Failed Basic-Auth attempts allowed per client IP inside LockoutWindow.
	MaxFailedAttempts int           `envconfig:"AUTH_MAX_FAILED_ATTEMPTS" default:"10"`
	LockoutWindow     time.Duration `envconfig:"AUTH_LOCKOUT_WINDOW" default:"15m"`

	MaxRegistrations   int           `envconfig:"AUTH_MAX_REGISTRATIONS" default:"5"`
	RegistrationWindow time.Duration `envconfig:"AUTH_REGISTRATION_WINDOW" default:"1h"`
}

// Load reads configuration from the environment, after merging an optional .env file.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	var cfg Config

	// Sections carry fully qualified variable names, so no prefix is passed.
	for _, section := range []any{&cfg.Server, &cfg.Database, &cfg.Redis, &cfg.Auth} {
		if err := envconfig.Process("", section); err != nil {
			return nil, fmt.Errorf("failed to process environment: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values envconfig cannot express through tags.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverMongo:
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverMongo, c.Database.Driver)
	}

	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("AUTH_BCRYPT_COST must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, c.Auth.BcryptCost)
	}

	if _, err := c.Server.TrustedProxyPrefixes(); err != nil {
		return err
	}

	if c.Auth.MaxFailedAttempts <= 0 || c.Auth.MaxRegistrations <= 0 {
		return fmt.Errorf("rate limit maximums must be positive")
	}

	return nil
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Address returns Redis connection address (host:port)
func (c *RedisConfig) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDevelopment returns true if the environment is set to dev
func (c *ServerConfig) IsDevelopment() bool {
	return c.Env == "dev"
}

// Address returns the listen address of the HTTP server
func (c *ServerConfig) Address() string {
	return ":" + c.Port
}

// TrustedProxyPrefixes parses TrustedProxies; a bare address is a single-host prefix
func (c *ServerConfig) TrustedProxyPrefixes() ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(c.TrustedProxies))
	for _, raw := range c.TrustedProxies {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		if strings.Contains(raw, "/") {
			p, err := netip.ParsePrefix(raw)
			if err != nil {
				return nil, fmt.Errorf("SERVER_TRUSTED_PROXIES: invalid CIDR %q: %w", raw, err)
			}
			prefixes = append(prefixes, p.Masked())
			continue
		}

		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, fmt.Errorf("SERVER_TRUSTED_PROXIES: invalid address %q: %w", raw, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}
