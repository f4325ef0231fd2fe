// Package config loads ottomart settings. Values are layered: built-in
// defaults, then an optional YAML file, then OTTOMART_* environment
// variables (a .env file in the working directory is read first).
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override. Nested keys use a double
// underscore: OTTOMART_POSTGRES__DSN sets postgres.dsn.
const EnvPrefix = "OTTOMART_"

// PathEnvVar overrides the config file location.
const PathEnvVar = "OTTOMART_CONFIG"

// DefaultPaths are searched in order when no path is given.
var DefaultPaths = []string{
	"ottomart.yaml",
	"ottomart.yml",
	"config.yaml",
}

// Config is the full application configuration.
type Config struct {
	Logging   LoggingConfig   `koanf:"logging"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Postgres  PostgresConfig  `koanf:"postgres"`
	Redis     RedisConfig     `koanf:"redis"`
	Embedder  EmbedderConfig  `koanf:"embedder"`
	Recommend RecommendConfig `koanf:"recommend"`
	Session   SessionConfig   `koanf:"session"`
	Events    EventsConfig    `koanf:"events"`
	Shopper   ShopperConfig   `koanf:"shopper"`
}

type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=off quiet normal info verbose debug"`
	Format string `koanf:"format" validate:"oneof=console json"`
	File   string `koanf:"file"` // empty or "stderr" logs to the console
}

// CatalogConfig selects where recipes, products and similarity rows come from.
type CatalogConfig struct {
	Source string `koanf:"source" validate:"oneof=memory file postgres"`
	File   string `koanf:"file" validate:"required_if=Source file"`
}

type PostgresConfig struct {
	DSN           string `koanf:"dsn"`
	MaxConns      int    `koanf:"max_conns" validate:"gte=0"`
	MinConns      int    `koanf:"min_conns" validate:"gte=0"`
	EnsureSchema  bool   `koanf:"ensure_schema"`
	EmbeddingDims int    `koanf:"embedding_dims" validate:"gt=0"`
}

type RedisConfig struct {
	Addr         string `koanf:"addr"`
	Password     string `koanf:"password"`
	DB           int    `koanf:"db" validate:"gte=0"`
	KeyPrefix    string `koanf:"key_prefix"`
	Stream       string `koanf:"stream"`
	StreamMaxLen int64  `koanf:"stream_max_len" validate:"gte=0"`
}

// EmbedderConfig points at an Ollama-compatible embedding endpoint. An
// empty URL disables vector search and keyword search is used instead.
type EmbedderConfig struct {
	URL     string        `koanf:"url" validate:"omitempty,url"`
	Model   string        `koanf:"model"`
	Timeout time.Duration `koanf:"timeout"`
}

type RecommendConfig struct {
	Limit               int     `koanf:"limit" validate:"gte=0"` // 0 returns every result
	MinRemainingWeight  float64 `koanf:"min_remaining_weight" validate:"gte=0"`
	SimilarityCacheSize int     `koanf:"similarity_cache_size" validate:"gt=0"`
	SearchLimit         int     `koanf:"search_limit" validate:"gt=0"`
}

type SessionConfig struct {
	Store         string        `koanf:"store" validate:"oneof=memory redis"`
	TTL           time.Duration `koanf:"ttl"`
	IdleTimeout   time.Duration `koanf:"idle_timeout"`
	SweepInterval time.Duration `koanf:"sweep_interval"`
}

type EventsConfig struct {
	Sinks        []string      `koanf:"sinks" validate:"dive,oneof=log postgres redis"`
	BufferSize   int           `koanf:"buffer_size" validate:"gt=0"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

// ShopperConfig identifies the shopper for CLI sessions.
type ShopperConfig struct {
	UserID int    `koanf:"user_id" validate:"gte=0"`
	OSType string `koanf:"os_type"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "normal",
			Format: "console",
			File:   ".ottomart-logs/ottomart.log",
		},
		Catalog: CatalogConfig{
			Source: "memory",
		},
		Postgres: PostgresConfig{
			MaxConns:      10,
			MinConns:      1,
			EmbeddingDims: 1024,
		},
		Redis: RedisConfig{
			Addr:      "localhost:6379",
			KeyPrefix: "ottomart:",
			Stream:    "ottomart:user_logs",
		},
		Embedder: EmbedderConfig{
			Model:   "bge-m3",
			Timeout: 30 * time.Second,
		},
		Recommend: RecommendConfig{
			Limit:               3,
			MinRemainingWeight:  100,
			SimilarityCacheSize: 1024,
			SearchLimit:         10,
		},
		Session: SessionConfig{
			Store:         "memory",
			TTL:           24 * time.Hour,
			IdleTimeout:   30 * time.Minute,
			SweepInterval: time.Minute,
		},
		Events: EventsConfig{
			Sinks:        []string{"log"},
			BufferSize:   256,
			WriteTimeout: 5 * time.Second,
		},
		Shopper: ShopperConfig{
			UserID: 1,
			OSType: "cli",
		},
	}
}

// Load reads the configuration. An explicit path must exist; otherwise
// the first of OTTOMART_CONFIG and DefaultPaths that exists is used.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")

	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path == "" {
		path = findFile()
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}
	if v, ok := k.Get("events.sinks").(string); ok {
		// Comma-separated list from the environment.
		if err := k.Set("events.sinks", splitList(v)); err != nil {
			return nil, fmt.Errorf("parsing events.sinks: %w", err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func findFile() string {
	if p := os.Getenv(PathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// envKey maps OTTOMART_RECOMMEND__MIN_REMAINING_WEIGHT to
// recommend.min_remaining_weight.
func envKey(key string) string {
	key = strings.TrimPrefix(key, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(key), "__", ".")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

var validate = validator.New()

// Validate checks field constraints and the settings that depend on each
// other.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	var errs []error
	if c.Catalog.Source == "postgres" && c.Postgres.DSN == "" {
		errs = append(errs, errors.New("catalog.source=postgres requires postgres.dsn"))
	}
	if c.Session.Store == "redis" && c.Redis.Addr == "" {
		errs = append(errs, errors.New("session.store=redis requires redis.addr"))
	}
	for _, s := range c.Events.Sinks {
		switch {
		case s == "postgres" && c.Postgres.DSN == "":
			errs = append(errs, errors.New("events sink postgres requires postgres.dsn"))
		case s == "redis" && c.Redis.Addr == "":
			errs = append(errs, errors.New("events sink redis requires redis.addr"))
		}
	}
	return errors.Join(errs...)
}

// UsesPostgres reports whether any component needs a database pool.
func (c *Config) UsesPostgres() bool {
	if c.Catalog.Source == "postgres" {
		return true
	}
	for _, s := range c.Events.Sinks {
		if s == "postgres" {
			return true
		}
	}
	return false
}

// UsesRedis reports whether any component needs a Redis client.
func (c *Config) UsesRedis() bool {
	if c.Session.Store == "redis" {
		return true
	}
	for _, s := range c.Events.Sinks {
		if s == "redis" {
			return true
		}
	}
	return false
}
