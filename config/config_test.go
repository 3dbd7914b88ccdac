package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simplebooks/books-contract-tests/client"
	"github.com/simplebooks/books-contract-tests/state"
)

func TestParseEmptyGivesDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, client.DefaultTimeout, cfg.RequestTimeout)
	assert.Equal(t, state.KindFile, cfg.State.Kind)
	assert.Empty(t, cfg.State.Path)
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
baseURL: https://simple-books-api.example.com
catalogSize: 8
requestsPerSecond: 2.5
statusTimeout: 30s
state:
  backend: redis
  redisAddr: localhost:6379
  redisDB: 3
`))
	require.NoError(t, err)
	assert.Equal(t, "https://simple-books-api.example.com", cfg.BaseURL)
	assert.Equal(t, 8, cfg.CatalogSize)
	assert.Equal(t, 2.5, cfg.RequestsPerSecond)
	assert.Equal(t, 30*time.Second, cfg.StatusTimeout)
	assert.Equal(t, client.DefaultTimeout, cfg.RequestTimeout)
	assert.Equal(t, state.Options{Kind: state.KindRedis, RedisAddr: "localhost:6379", RedisDB: 3},
		cfg.State)
	assert.NoError(t, cfg.Validate())
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("baseUrl: http://localhost\n"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.yaml")
	require.NoError(t, os.WriteFile(path, []byte("baseURL: http://localhost:8000\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.BaseURL)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Default()
	valid.BaseURL = "http://localhost:8000"
	require.NoError(t, valid.Validate())

	for name, mutate := range map[string]func(*Config){
		"no url":           func(c *Config) { c.BaseURL = "" },
		"relative url":     func(c *Config) { c.BaseURL = "/books" },
		"negative catalog": func(c *Config) { c.CatalogSize = -1 },
		"negative rate":    func(c *Config) { c.RequestsPerSecond = -1 },
		"no status wait":   func(c *Config) { c.StatusTimeout = 0 },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := valid
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestClientOptions(t *testing.T) {
	cfg := Default()
	cfg.RequestsPerSecond = 4
	assert.Equal(t, client.Options{Timeout: client.DefaultTimeout, RequestsPerSecond: 4}, cfg.ClientOptions())
}
