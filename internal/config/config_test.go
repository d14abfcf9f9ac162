package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)

	assert.Equal(t, BackendFile, cfg.Store.Backend)
	assert.Equal(t, "data/rankings", cfg.Store.Dir)
	assert.Equal(t, SourceDir, cfg.Records.Source)
	assert.Equal(t, "deterministic", cfg.Ranking.Strategy)
	assert.Equal(t, 4, cfg.Ranking.Workers)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, time.Minute, cfg.Server.RateWindow)
	assert.Equal(t, 10*time.Minute, cfg.Redis.TTL)
	assert.False(t, cfg.AuthEnabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_YAMLFile(t *testing.T) {
	content := `
store:
  backend: memory
records:
  dir: /srv/records
ranking:
  workers: 8
redis:
  addr: localhost:6379
  ttl: 30s
auth:
  jwt_secret: s3cret
  clients:
    recruiting-portal: "$2a$12$abcdefghijklmnopqrstuv"
`
	path := filepath.Join(t.TempDir(), "ranker.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(NewViper(), path)
	require.NoError(t, err)

	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.Equal(t, "/srv/records", cfg.Records.Dir)
	assert.Equal(t, 8, cfg.Ranking.Workers)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 30*time.Second, cfg.Redis.TTL)
	assert.True(t, cfg.AuthEnabled())
	assert.Contains(t, cfg.Auth.Clients, "recruiting-portal")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	content := `{"store": {"backend": "memory"}, "ranking": {"workers": 2}}`
	path := filepath.Join(t.TempDir(), "ranker.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	t.Setenv("RANKER_RANKING_WORKERS", "16")
	t.Setenv("RANKER_DATABASE_URL", "postgres://localhost/ranker")

	cfg, err := Load(NewViper(), path)
	require.NoError(t, err)

	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.Equal(t, 16, cfg.Ranking.Workers)
	assert.Equal(t, "postgres://localhost/ranker", cfg.DatabaseURL)
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load(NewViper(), "/nonexistent/path/ranker.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ranker.json")
	require.NoError(t, os.WriteFile(path, []byte(`{ invalid json }`), 0644))

	cfg, err := Load(NewViper(), path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load(NewViper(), "")
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"unknown backend", func(c *Config) { c.Store.Backend = "s3" }, "unknown store backend"},
		{"file backend without dir", func(c *Config) { c.Store.Dir = "" }, "'store.dir' is required"},
		{"postgres backend without url", func(c *Config) { c.Store.Backend = BackendPostgres }, "'database_url' is required"},
		{"postgres source without url", func(c *Config) { c.Records.Source = SourcePostgres }, "'database_url' is required"},
		{"unknown source", func(c *Config) { c.Records.Source = "ftp" }, "unknown records source"},
		{"zero workers", func(c *Config) { c.Ranking.Workers = 0 }, "'ranking.workers' must be positive"},
		{"empty strategy", func(c *Config) { c.Ranking.Strategy = "" }, "'ranking.strategy' must be set"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "'server.port' out of range"},
		{"negative rate limit", func(c *Config) { c.Server.RateLimit = -1 }, "'server.rate_limit'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_JWT(t *testing.T) {
	cfg := &Config{}
	jwtCfg, err := cfg.JWT()
	require.NoError(t, err)
	assert.Nil(t, jwtCfg, "auth disabled without a secret")

	cfg.Auth.JWTSecret = "secret"
	jwtCfg, err = cfg.JWT()
	require.NoError(t, err)
	assert.Equal(t, DefaultJWTExpirationHours, jwtCfg.ExpirationHours)
}
