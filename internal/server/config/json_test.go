package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"endpoint_addr_http":              "www.example:9000",
		"database_dsn":                    "stats.db",
		"storage_backend":                 "memory",
		"strava_client_id":                "12345",
		"strava_client_secret":            "clientsecret",
		"strava_redirect_url":             "http://cb",
		"secret_key":                      "my_secret_key",
		"session_token_validity_duration": "12h",
		"sync_page_size":                  30,
		"sync_max_pages":                  5,
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "www.example:9000", cfg.EndpointAddrHTTP)
		assert.Equal(t, "stats.db", cfg.DatabaseDSN)
		assert.Equal(t, "memory", cfg.StorageBackend)
		assert.Equal(t, "12345", cfg.StravaClientID)
		assert.Equal(t, "clientsecret", cfg.StravaClientSecret)
		assert.Equal(t, "http://cb", cfg.StravaRedirectURL)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 12*time.Hour, cfg.SessionTokenValidityDuration)
		assert.Equal(t, 30, cfg.SyncPageSize)
		assert.Equal(t, 5, cfg.SyncMaxPages)
	})

	t.Run("no CONFIG and no flags → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			EndpointAddrHTTP:             "defaults:1234",
			DatabaseDSN:                  "stats.db",
			StorageBackend:               "postgres",
			SecretKey:                    "key",
			SessionTokenValidityDuration: 2 * time.Hour,
			SyncPageSize:                 50,
			SyncMaxPages:                 10,
		}
		parseJson(cfg)

		assert.Equal(t, "defaults:1234", cfg.EndpointAddrHTTP)
		assert.Equal(t, "stats.db", cfg.DatabaseDSN)
		assert.Equal(t, "postgres", cfg.StorageBackend)
		assert.Equal(t, "key", cfg.SecretKey)
		assert.Equal(t, 2*time.Hour, cfg.SessionTokenValidityDuration)
		assert.Equal(t, 50, cfg.SyncPageSize)
		assert.Equal(t, 10, cfg.SyncMaxPages)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
