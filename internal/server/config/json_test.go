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

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	t.Run("loads from json", func(t *testing.T) {
		path := writeTempJSON(t, map[string]any{
			"http_addr":               "127.0.0.1:3001",
			"grpc_addr":               ":50052",
			"api_version":             "v9",
			"cors_allowed_origins":    []string{"http://admin.example"},
			"auth_modes":              []string{"password", "otp"},
			"accounts":                []string{"alice:secret"},
			"secret_key":              "my_secret_key",
			"token_validity_duration": "2h",
			"otp_max":                 1000000,
			"otp_secure":              true,
			"redis_addr":              "redis:6379",
			"database_dsn":            "postgres://audit",
			"log_format":              "text",
		})

		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseJson(cfg, []string{"-config", path}))

		assert.Equal(t, "127.0.0.1:3001", cfg.HTTPAddr)
		assert.Equal(t, ":50052", cfg.GRPCAddr)
		assert.Equal(t, "v9", cfg.APIVersion)
		assert.Equal(t, []string{"http://admin.example"}, cfg.CORSAllowedOrigins)
		assert.Equal(t, []string{"password", "otp"}, cfg.AuthModes)
		assert.Equal(t, []string{"alice:secret"}, cfg.Accounts)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 2*time.Hour, cfg.TokenValidityDuration)
		assert.Equal(t, int64(1000000), cfg.OTPMax)
		assert.True(t, cfg.OTPSecure)
		assert.Equal(t, "redis:6379", cfg.RedisAddr)
		assert.Equal(t, "postgres://audit", cfg.DatabaseDSN)
		assert.Equal(t, "text", cfg.LogFormat)
	})

	t.Run("partial file keeps defaults", func(t *testing.T) {
		path := writeTempJSON(t, map[string]any{"help_url": "https://docs.example"})

		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseJson(cfg, []string{"-c", path}))

		assert.Equal(t, "https://docs.example", cfg.HelpURL)
		assert.Equal(t, ":3000", cfg.HTTPAddr)
		assert.Equal(t, 24*time.Hour, cfg.TokenValidityDuration)
		assert.Equal(t, InsecureDefaultSecret, cfg.SecretKey)
	})

	t.Run("no config flag → no changes", func(t *testing.T) {
		cfg := &Config{}
		cfg.LoadDefaults()
		want := *cfg
		require.NoError(t, parseJson(cfg, []string{"-a", ":1"}))
		assert.Equal(t, want, *cfg)
	})

	t.Run("invalid JSON → error", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		cfg := &Config{}
		require.Error(t, parseJson(cfg, []string{"-c", bad}))
	})
}
