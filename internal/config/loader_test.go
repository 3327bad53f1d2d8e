package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tradepro.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultsAreValid(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, validate(&cfg))
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "tradepro_session", cfg.Session.Key)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), *cfg)
}

func TestYAMLOverridesDefaults(t *testing.T) {
	path := writeYAML(t, `
log:
  level: debug
session:
  backend: redis
  ttl: 2h
storage:
  provider: s3
  bucket: logos
`)
	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "redis", cfg.Session.Backend)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "logos", cfg.Storage.Bucket)
	assert.Equal(t, ":8080", cfg.HTTP.ListenAddr, "unset fields keep defaults")
}

func TestEnvOverridesYAML(t *testing.T) {
	path := writeYAML(t, "log:\n  level: debug\n")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/tradepro")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("WHATSAPP_ENABLED", "true")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, 0, cfg.Session.RedisDB, "unparsable values are ignored")
	assert.True(t, cfg.WhatsApp.Enabled)
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]func(*Config){
		"postgres without url": func(c *Config) { c.Database.Driver = "postgres" },
		"unknown driver":       func(c *Config) { c.Database.Driver = "mysql" },
		"unknown session":      func(c *Config) { c.Session.Backend = "cookie" },
		"zero ttl":             func(c *Config) { c.Session.TTL = 0 },
		"s3 without bucket":    func(c *Config) { c.Storage.Provider, c.Storage.Bucket = "s3", "" },
		"unknown storage":      func(c *Config) { c.Storage.Provider = "ftp" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Defaults()
			mutate(&cfg)
			assert.Error(t, validate(&cfg))
		})
	}
}

func TestBadYAML(t *testing.T) {
	_, err := LoadFrom(writeYAML(t, "log: [unterminated"))
	assert.ErrorContains(t, err, "config yaml")
}
