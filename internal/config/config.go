// Package config provides configuration loading and validation for the ranker CLI and server.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the ranker reads, e.g. RANKER_STORE_BACKEND
const EnvPrefix = "RANKER"

// Store backends
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// Record sources
const (
	SourceDir      = "dir"
	SourcePostgres = "postgres"
)

// Config is the full ranker configuration. Values come from defaults, an
// optional YAML or JSON file, and RANKER_* environment variables, in
// increasing order of precedence.
type Config struct {
	Store       StoreConfig   `mapstructure:"store"`
	Records     RecordsConfig `mapstructure:"records"`
	DatabaseURL string        `mapstructure:"database_url"`
	Redis       RedisConfig   `mapstructure:"redis"`
	Ranking     RankingConfig `mapstructure:"ranking"`
	Server      ServerConfig  `mapstructure:"server"`
	Auth        AuthConfig    `mapstructure:"auth"`
	Log         LogConfig     `mapstructure:"log"`
}

// StoreConfig selects where ranking artifacts are persisted
type StoreConfig struct {
	Backend string `mapstructure:"backend"`
	Dir     string `mapstructure:"dir"`
}

// RecordsConfig selects where requirement and candidate records are read from
type RecordsConfig struct {
	Source string `mapstructure:"source"`
	Dir    string `mapstructure:"dir"`
}

// RedisConfig configures the optional artifact cache. An empty address disables it.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// RankingConfig selects and tunes the ranking strategy
type RankingConfig struct {
	Strategy string `mapstructure:"strategy"`
	Workers  int    `mapstructure:"workers"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	RateLimit       int           `mapstructure:"rate_limit"`
	RateWindow      time.Duration `mapstructure:"rate_window"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// AuthConfig configures bearer-token auth on the HTTP API. Auth is off when
// JWTSecret is empty. Clients maps client ids to bcrypt hashes of their secrets.
type AuthConfig struct {
	JWTSecret          string            `mapstructure:"jwt_secret"`
	JWTExpirationHours int               `mapstructure:"jwt_expiration_hours"`
	BcryptCost         int               `mapstructure:"bcrypt_cost"`
	Pepper             string            `mapstructure:"pepper"`
	Clients            map[string]string `mapstructure:"clients"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// NewViper returns a viper instance with ranker defaults and environment binding
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("store.backend", BackendFile)
	v.SetDefault("store.dir", "data/rankings")
	v.SetDefault("records.source", SourceDir)
	v.SetDefault("records.dir", "data")
	v.SetDefault("database_url", "")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 10*time.Minute)
	v.SetDefault("ranking.strategy", "deterministic")
	v.SetDefault("ranking.workers", 4)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit", 60)
	v.SetDefault("server.rate_window", time.Minute)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.jwt_expiration_hours", 24)
	v.SetDefault("auth.bcrypt_cost", 12)
	v.SetDefault("auth.pepper", "")
	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the optional config file at path into v and decodes the result.
// An empty path skips the file and uses defaults plus environment only.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	var errs []error

	switch c.Store.Backend {
	case BackendMemory:
	case BackendFile:
		if c.Store.Dir == "" {
			errs = append(errs, fmt.Errorf("config error: 'store.dir' is required for the file backend"))
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, fmt.Errorf("config error: 'database_url' is required for the postgres backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("config error: unknown store backend %q", c.Store.Backend))
	}

	switch c.Records.Source {
	case SourceDir:
		if c.Records.Dir == "" {
			errs = append(errs, fmt.Errorf("config error: 'records.dir' is required for the dir source"))
		}
	case SourcePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, fmt.Errorf("config error: 'database_url' is required for the postgres source"))
		}
	default:
		errs = append(errs, fmt.Errorf("config error: unknown records source %q", c.Records.Source))
	}

	if c.Ranking.Strategy == "" {
		errs = append(errs, fmt.Errorf("config error: 'ranking.strategy' must be set"))
	}
	if c.Ranking.Workers < 1 {
		errs = append(errs, fmt.Errorf("config error: 'ranking.workers' must be positive"))
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("config error: 'server.port' out of range: %d", c.Server.Port))
	}
	if c.Server.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("config error: 'server.rate_limit' must be non-negative"))
	}

	return errors.Join(errs...)
}

// AuthEnabled reports whether the HTTP API requires bearer tokens
func (c *Config) AuthEnabled() bool {
	return c.Auth.JWTSecret != ""
}

// JWT returns the token configuration, or nil when auth is disabled
func (c *Config) JWT() (*JWTConfig, error) {
	if !c.AuthEnabled() {
		return nil, nil
	}
	return NewJWTConfig(c.Auth.JWTSecret, c.Auth.JWTExpirationHours)
}

// Password returns the client-secret hashing configuration
func (c *Config) Password() (*PasswordConfig, error) {
	return NewPasswordConfig(c.Auth.BcryptCost, c.Auth.Pepper)
}
