// Package config loads application configuration from defaults, an optional
// YAML file and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environments.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds the full application configuration.
type Config struct {
	Env       string          `koanf:"env"`
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Log       LogConfig       `koanf:"log"`
	CORS      CORSConfig      `koanf:"cors"`
	Redis     RedisConfig     `koanf:"redis"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
}

// ServerConfig configures the API and metrics listeners.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              string        `koanf:"port"`
	MetricsPort       string        `koanf:"metrics_port"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
}

// DatabaseConfig selects and configures the incident store.
type DatabaseConfig struct {
	Driver          string        `koanf:"driver"`
	URL             string        `koanf:"url"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnectTimeout  time.Duration `koanf:"connect_timeout"`
	ConnectAttempts int           `koanf:"connect_attempts"`
	Migrate         bool          `koanf:"migrate"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// CORSConfig lists origins allowed to call the API. "*" allows any origin.
type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// RedisConfig enables lifecycle event publishing when URL is set.
type RedisConfig struct {
	URL     string `koanf:"url"`
	Channel string `koanf:"channel"`
}

// RateLimitConfig enables per-process request limiting when RPS > 0.
type RateLimitConfig struct {
	RPS   float64 `koanf:"rps"`
	Burst int     `koanf:"burst"`
}

// envKeys maps environment variables to configuration keys.
var envKeys = map[string]string{
	"APP_ENV":                   "env",
	"HOST":                      "server.host",
	"PORT":                      "server.port",
	"METRICS_PORT":              "server.metrics_port",
	"SHUTDOWN_TIMEOUT":          "server.shutdown_timeout",
	"DATABASE_DRIVER":           "database.driver",
	"DATABASE_URL":              "database.url",
	"DATABASE_MAX_OPEN_CONNS":   "database.max_open_conns",
	"DATABASE_MAX_IDLE_CONNS":   "database.max_idle_conns",
	"DATABASE_CONNECT_TIMEOUT":  "database.connect_timeout",
	"DATABASE_CONNECT_ATTEMPTS": "database.connect_attempts",
	"DATABASE_MIGRATE":          "database.migrate",
	"LOG_LEVEL":                 "log.level",
	"LOG_FORMAT":                "log.format",
	"CORS_ALLOWED_ORIGINS":      "cors.allowed_origins",
	"REDIS_URL":                 "redis.url",
	"REDIS_CHANNEL":             "redis.channel",
	"RATE_LIMIT_RPS":            "rate_limit.rps",
	"RATE_LIMIT_BURST":          "rate_limit.burst",
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Env: EnvDevelopment,
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              "5000",
			MetricsPort:       "9090",
			ReadTimeout:       15 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:          DriverPostgres,
			URL:             "postgres://localhost:5432/incident_management?sslmode=disable",
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxLifetime: 30 * time.Minute,
			ConnectTimeout:  30 * time.Second,
			ConnectAttempts: 5,
			Migrate:         true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
		Redis: RedisConfig{
			Channel: "incidents",
		},
		RateLimit: RateLimitConfig{
			Burst: 20,
		},
	}
}

// Load builds the configuration. Later sources override earlier ones:
// defaults, the YAML file named by CONFIG_FILE, environment variables.
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func envValue(name, value string) (string, interface{}) {
	key, ok := envKeys[name]
	if !ok || strings.TrimSpace(value) == "" {
		return "", nil
	}

	if key == "cors.allowed_origins" {
		var origins []string
		for _, origin := range strings.Split(value, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
		return key, origins
	}

	return key, strings.TrimSpace(value)
}

// Validate checks values that cannot be expressed by types alone.
func (c *Config) Validate() error {
	var errs []error

	switch c.Env {
	case EnvDevelopment, EnvProduction:
	default:
		errs = append(errs, fmt.Errorf("env must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.Env))
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.URL == "" {
			errs = append(errs, errors.New("database url is required for the postgres driver"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("database driver must be %q or %q, got %q", DriverPostgres, DriverMemory, c.Database.Driver))
	}

	if c.Server.Port == "" {
		errs = append(errs, errors.New("server port is required"))
	}

	if c.RateLimit.RPS < 0 {
		errs = append(errs, errors.New("rate limit rps must not be negative"))
	}

	return errors.Join(errs...)
}

// IsProduction reports whether internal error details must be hidden from clients.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}
