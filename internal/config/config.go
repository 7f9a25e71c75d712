// Package config loads server configuration in three layers: built-in
// defaults, an optional YAML file, then environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/neexbeast/hajj-compare/internal/scoring"
	"github.com/neexbeast/hajj-compare/internal/validation"
)

// ConfigPathEnvVar names the variable that points at a YAML config file.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPath is read when present and CONFIG_PATH is unset.
const DefaultConfigPath = "config.yaml"

// Config is the full server configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	Auth      AuthConfig      `koanf:"auth"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Log       LogConfig       `koanf:"log"`
	Scoring   scoring.Config  `koanf:"scoring"`
}

type ServerConfig struct {
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

type DatabaseConfig struct {
	URL           string `koanf:"url" validate:"required"`
	MigrationsDir string `koanf:"migrations_dir" validate:"required"`
}

type RedisConfig struct {
	URL string `koanf:"url" validate:"required"`
}

type AuthConfig struct {
	BearerToken string `koanf:"bearer_token" validate:"required"`
}

// CatalogConfig controls the preloaded catalog and its cache.
type CatalogConfig struct {
	// Path is a CSV or JSON file ingested at startup. Empty keeps whatever
	// the database already holds.
	Path     string        `koanf:"path"`
	CacheTTL time.Duration `koanf:"cache_ttl" validate:"gt=0"`
}

type RateLimitConfig struct {
	Requests int           `koanf:"requests" validate:"gt=0"`
	Window   time.Duration `koanf:"window" validate:"gt=0"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json text"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Database:  DatabaseConfig{MigrationsDir: "migrations"},
		Catalog:   CatalogConfig{CacheTTL: time.Hour},
		RateLimit: RateLimitConfig{Requests: 60, Window: time.Minute},
		Log:       LogConfig{Level: "info", Format: "json"},
		Scoring:   scoring.DefaultConfig(),
	}
}

// envMappings maps environment variable names (lowercased) to config paths.
// Variables not listed here are ignored.
var envMappings = map[string]string{
	"port":                "server.port",
	"database_url":        "database.url",
	"migrations_dir":      "database.migrations_dir",
	"redis_url":           "redis.url",
	"bearer_token":        "auth.bearer_token",
	"catalog_path":        "catalog.path",
	"catalog_cache_ttl":   "catalog.cache_ttl",
	"rate_limit_requests": "rate_limit.requests",
	"rate_limit_window":   "rate_limit.window",
	"log_level":           "log.level",
	"log_format":          "log.format",
	"camp_surcharge":      "scoring.camp_surcharge",
	"result_limit":        "scoring.limit",
}

func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// Load reads the configuration. The YAML file is taken from CONFIG_PATH, or
// config.yaml in the working directory when it exists.
func Load() (*Config, error) {
	path := os.Getenv(ConfigPathEnvVar)
	if path == "" {
		if _, err := os.Stat(DefaultConfigPath); err == nil {
			path = DefaultConfigPath
		}
	}
	return LoadFrom(path)
}

// LoadFrom reads the configuration using path as the YAML layer. An empty
// path skips the file.
func LoadFrom(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling configuration: %w", err)
	}

	if err := validation.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// Logger builds the process logger from the log settings.
func (c *Config) Logger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(c.Log.Level)}
	if c.Log.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func parseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
