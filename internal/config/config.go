// Package config assembles the API server configuration.
//
// Values are resolved in three layers: built-in defaults, an optional YAML
// file named by CONFIG_PATH, then environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"sports-cms/internal/common/pagination"
	"sports-cms/internal/infra/db"
	envconfig "sports-cms/pkg/config"
)

// Config is the full server configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Pagination PaginationConfig `yaml:"pagination"`
	CORS       CORSConfig       `yaml:"cors"`
	GraphQL    GraphQLConfig    `yaml:"graphql"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	LogLevel   string           `yaml:"log_level"`
	Version    string           `yaml:"version"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
}

type DatabaseConfig struct {
	Driver          string        `yaml:"driver"`
	URL             string        `yaml:"url"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
}

type PaginationConfig struct {
	DefaultLimit int `yaml:"default_limit"`
	MaxLimit     int `yaml:"max_limit"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type GraphQLConfig struct {
	MaxDepth int `yaml:"max_depth"`
}

// RateLimitConfig is the per-client token bucket; zero requests_per_second disables it.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// Default returns the built-in configuration.
func Default() *Config {
	pool := db.DefaultConnectionConfig()
	paging := pagination.DefaultConfig()
	return &Config{
		Server: ServerConfig{
			Addr:            ":4000",
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    1 << 20,
		},
		Database: DatabaseConfig{
			Driver:          db.DriverPostgres,
			MaxOpenConns:    pool.MaxOpenConns,
			MaxIdleConns:    pool.MaxIdleConns,
			ConnMaxLifetime: pool.ConnMaxLifetime,
			ConnMaxIdleTime: pool.ConnMaxIdleTime,
		},
		Pagination: PaginationConfig{DefaultLimit: paging.DefaultLimit, MaxLimit: paging.MaxLimit},
		CORS:       CORSConfig{AllowedOrigins: []string{"*"}},
		GraphQL:    GraphQLConfig{MaxDepth: 8},
		RateLimit:  RateLimitConfig{RequestsPerSecond: 20, Burst: 40},
		LogLevel:   "info",
		Version:    "dev",
	}
}

// Load resolves the configuration from defaults, CONFIG_PATH and the environment.
func Load() (*Config, error) {
	cfg := Default()
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadFile overlays the YAML file at path. Keys missing from the file keep their current value.
// The path comes from the operator's environment, not from request input.
func (c *Config) loadFile(path string) error {
	// #nosec G304 -- path is provided by the deployment environment
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Addr = envconfig.GetEnvString("HTTP_ADDR", c.Server.Addr)
	c.Server.RequestTimeout = envconfig.GetEnvDuration("HTTP_REQUEST_TIMEOUT", c.Server.RequestTimeout)
	c.Server.ShutdownTimeout = envconfig.GetEnvDuration("HTTP_SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)
	c.Server.MaxBodyBytes = envconfig.GetEnvInt64("HTTP_MAX_BODY_BYTES", c.Server.MaxBodyBytes)

	c.Database.Driver = envconfig.GetEnvString("DB_DRIVER", c.Database.Driver)
	c.Database.URL = envconfig.GetEnvString("DATABASE_URL", c.Database.URL)
	c.Database.MaxOpenConns = envconfig.GetEnvInt("DB_MAX_OPEN_CONNS", c.Database.MaxOpenConns)
	c.Database.MaxIdleConns = envconfig.GetEnvInt("DB_MAX_IDLE_CONNS", c.Database.MaxIdleConns)
	c.Database.ConnMaxLifetime = envconfig.GetEnvDuration("DB_CONN_MAX_LIFETIME", c.Database.ConnMaxLifetime)
	c.Database.ConnMaxIdleTime = envconfig.GetEnvDuration("DB_CONN_MAX_IDLE_TIME", c.Database.ConnMaxIdleTime)

	c.Pagination.DefaultLimit = envconfig.GetEnvInt("PAGINATION_DEFAULT_LIMIT", c.Pagination.DefaultLimit)
	c.Pagination.MaxLimit = envconfig.GetEnvInt("PAGINATION_MAX_LIMIT", c.Pagination.MaxLimit)

	c.CORS.AllowedOrigins = envconfig.GetEnvStringList("CORS_ALLOWED_ORIGINS", c.CORS.AllowedOrigins)
	c.GraphQL.MaxDepth = envconfig.GetEnvInt("GRAPHQL_MAX_DEPTH", c.GraphQL.MaxDepth)
	c.RateLimit.RequestsPerSecond = envconfig.GetEnvFloat64("RATE_LIMIT_RPS", c.RateLimit.RequestsPerSecond)
	c.RateLimit.Burst = envconfig.GetEnvInt("RATE_LIMIT_BURST", c.RateLimit.Burst)
	c.LogLevel = envconfig.GetEnvString("LOG_LEVEL", c.LogLevel)
	c.Version = envconfig.GetEnvString("VERSION", c.Version)
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server address is required"))
	}
	if err := envconfig.ValidateNonNegativeDuration(c.Server.RequestTimeout); err != nil {
		errs = append(errs, fmt.Errorf("request_timeout: %w", err))
	}
	if err := envconfig.ValidateDurationRange(c.Server.ShutdownTimeout, time.Second, 5*time.Minute); err != nil {
		errs = append(errs, fmt.Errorf("shutdown_timeout: %w", err))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("max_body_bytes must be positive"))
	}

	if err := c.DB().Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Database.MaxOpenConns <= 0 || c.Database.MaxIdleConns < 0 {
		errs = append(errs, errors.New("database pool sizes must be positive"))
	}

	if c.Pagination.DefaultLimit <= 0 || c.Pagination.MaxLimit < c.Pagination.DefaultLimit {
		errs = append(errs, fmt.Errorf("pagination limits invalid: default %d, max %d",
			c.Pagination.DefaultLimit, c.Pagination.MaxLimit))
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("at least one CORS origin is required"))
	}
	if c.GraphQL.MaxDepth <= 0 {
		errs = append(errs, errors.New("graphql max_depth must be positive"))
	}
	if c.RateLimit.RequestsPerSecond < 0 || (c.RateLimit.RequestsPerSecond > 0 && c.RateLimit.Burst < 1) {
		errs = append(errs, fmt.Errorf("rate limit invalid: %g rps, burst %d",
			c.RateLimit.RequestsPerSecond, c.RateLimit.Burst))
	}

	return errors.Join(errs...)
}

// DB returns the database settings in the form db.Open expects.
func (c *Config) DB() db.Config {
	return db.Config{
		Driver: c.Database.Driver,
		DSN:    c.Database.URL,
		Pool: db.ConnectionConfig{
			MaxOpenConns:    c.Database.MaxOpenConns,
			MaxIdleConns:    c.Database.MaxIdleConns,
			ConnMaxLifetime: c.Database.ConnMaxLifetime,
			ConnMaxIdleTime: c.Database.ConnMaxIdleTime,
		},
	}
}

// Paging returns the list paging limits.
func (c *Config) Paging() pagination.Config {
	return pagination.Config{DefaultLimit: c.Pagination.DefaultLimit, MaxLimit: c.Pagination.MaxLimit}
}
