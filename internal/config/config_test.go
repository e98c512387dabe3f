package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "cookie", cfg.SessionStore)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL())
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins())
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join([]string{
		`port: "9090"`,
		`db_driver: sqlite`,
		`jwt_expiry_minutes: 30`,
		`cors_origins: "https://app.example.com, https://admin.example.com"`,
	}, "\n")), 0o600))

	// environment wins over the file
	t.Setenv("PORT", "7070")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL())
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.AllowedOrigins())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			DBDriver:      "mysql",
			SessionStore:  "redis",
			JWTSecret:     strings.Repeat("a", 32),
			JWTExpiryMins: 60,
		}
	}

	cfg := valid()
	assert.NoError(t, cfg.Validate())

	tests := map[string]func(*Config){
		"unknown driver":   func(c *Config) { c.DBDriver = "oracle" },
		"unknown store":    func(c *Config) { c.SessionStore = "memcached" },
		"short secret":     func(c *Config) { c.JWTSecret = "short" },
		"non-positive ttl": func(c *Config) { c.JWTExpiryMins = 0 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
