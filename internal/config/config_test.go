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
	t.Setenv("API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	for _, name := range []string{"PORT", "STORE_BACKEND", "SESSION_BACKEND", "RISK_PROVIDER", "SETTLE_DISPLAY_DELAY", "ADMIN_EMAIL", "KAFKA_TOPIC", "CONFIG_FILE"} {
		t.Setenv(name, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "buntdb", cfg.StoreBackend)
	assert.Equal(t, "memory", cfg.SessionBackend)
	assert.Equal(t, "gemini", cfg.RiskProvider)
	assert.Empty(t, cfg.GeminiAPIKey)
	assert.Equal(t, 5*time.Second, cfg.SettleDisplayDelay)
	assert.Equal(t, "admin@payways.com", cfg.AdminEmail)
	assert.Equal(t, "payment.state.changed", cfg.KafkaTopic)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("API_KEY", "secret")
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_BACKEND", "Postgres")
	t.Setenv("SETTLE_DISPLAY_DELAY", "250ms")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.GeminiAPIKey)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "postgres", cfg.StoreBackend)
	assert.Equal(t, 250*time.Millisecond, cfg.SettleDisplayDelay)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payways.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"7070\"\nadmin_email: ops@payways.com\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "")
	t.Setenv("ADMIN_EMAIL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "ops@payways.com", cfg.AdminEmail)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "missing.yaml")
}
