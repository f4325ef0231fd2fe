package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves into an empty directory so no stray config or .env is found.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdir(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Catalog.Source)
	assert.Equal(t, 3, cfg.Recommend.Limit)
	assert.Equal(t, 100.0, cfg.Recommend.MinRemainingWeight)
	assert.Equal(t, []string{"log"}, cfg.Events.Sinks)
	assert.Equal(t, 30*time.Minute, cfg.Session.IdleTimeout)
	assert.False(t, cfg.UsesPostgres())
	assert.False(t, cfg.UsesRedis())
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := chdir(t)
	path := filepath.Join(dir, "custom.yaml")
	body := `
recommend:
  limit: 5
  min_remaining_weight: 50
session:
  store: redis
  idle_timeout: 10m
redis:
  addr: cache:6379
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	t.Setenv("OTTOMART_RECOMMEND__LIMIT", "7")
	t.Setenv("OTTOMART_EVENTS__SINKS", "log, redis")
	t.Setenv("OTTOMART_LOGGING__LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Recommend.Limit, "environment beats file")
	assert.Equal(t, 50.0, cfg.Recommend.MinRemainingWeight, "file beats defaults")
	assert.Equal(t, 10*time.Minute, cfg.Session.IdleTimeout)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, []string{"log", "redis"}, cfg.Events.Sinks)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.UsesRedis())
}

func TestLoadConfigPathEnv(t *testing.T) {
	dir := chdir(t)
	path := filepath.Join(dir, "elsewhere.yaml")
	require.NoError(t, os.WriteFile(path, []byte("shopper:\n  user_id: 42\n"), 0o644))
	t.Setenv(PathEnvVar, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.Shopper.UserID)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	chdir(t)
	_, err := Load("nope.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"bad mode source", func(c *Config) { c.Catalog.Source = "csv" }, true},
		{"file source needs path", func(c *Config) { c.Catalog.Source = "file" }, true},
		{"file source with path", func(c *Config) { c.Catalog.Source = "file"; c.Catalog.File = "c.json" }, false},
		{"postgres source needs dsn", func(c *Config) { c.Catalog.Source = "postgres" }, true},
		{"postgres sink needs dsn", func(c *Config) { c.Events.Sinks = []string{"postgres"} }, true},
		{"unknown sink", func(c *Config) { c.Events.Sinks = []string{"kafka"} }, true},
		{"negative limit", func(c *Config) { c.Recommend.Limit = -1 }, true},
		{"bad embedder url", func(c *Config) { c.Embedder.URL = "not a url" }, true},
		{"redis store needs addr", func(c *Config) { c.Session.Store = "redis"; c.Redis.Addr = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "recommend.min_remaining_weight", envKey("OTTOMART_RECOMMEND__MIN_REMAINING_WEIGHT"))
	assert.Equal(t, "postgres.dsn", envKey("OTTOMART_POSTGRES__DSN"))
}
