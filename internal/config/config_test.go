package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ":8080", cfg.Server.Addr())
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeoutDuration())
	assert.Equal(t, 0.21, cfg.Regulated.VATRate)
	assert.Equal(t, 0.00234, cfg.Regulated.HydrocarbonTaxPerKWh)
	assert.True(t, cfg.Catalog.SeedPresets)
	assert.False(t, cfg.Auth.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TARIFFMANAGER_SERVER_PORT", "9191")
	t.Setenv("TARIFFMANAGER_STORAGE_DRIVER", "sqlite")
	t.Setenv("TARIFFMANAGER_STORAGE_DSN", "/tmp/x.db")
	t.Setenv("TARIFFMANAGER_REGULATED_VAT_RATE", "0.1")
	t.Setenv("TARIFFMANAGER_BACKEND_BASE_URL", "https://backend.example.com")
	t.Setenv("TARIFFMANAGER_SYNC_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "/tmp/x.db", cfg.Storage.DSN)
	assert.Equal(t, 0.1, cfg.Regulated.VATRate)
	assert.Equal(t, "https://backend.example.com", cfg.Backend.BaseURL)
	assert.True(t, cfg.Sync.Enabled)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("TARIFFMANAGER_STORAGE_DRIVER", "mongodb")
	_, err := Load()
	assert.ErrorContains(t, err, "unsupported storage driver")
}

func TestValidate_NegativeRegulated(t *testing.T) {
	cfg := &Config{
		Server:  ServerConfig{Port: 80},
		Storage: StorageConfig{Driver: "memory"},
	}
	require.NoError(t, cfg.Validate())

	cfg.Regulated.VATRate = -0.21
	assert.Error(t, cfg.Validate())
}
