package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, 8090, cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, "https://api.holded.com/api/invoicing/v1", cfg.HoldedBaseURL)
	assert.Equal(t, ClassifierIndicator, cfg.Classifier)
	assert.Equal(t, "holdfolio.db", cfg.DatabasePath)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HOLDFOLIO_PORT", "9000")
	t.Setenv("HOLDED_API_KEY", "key-from-env")
	t.Setenv("HOLDED_BASE_URL", "http://localhost:8081/api")
	t.Setenv("HOLDFOLIO_SYNC_TOKEN", "trigger-token")
	t.Setenv("HOLDFOLIO_CLASSIFIER", "random")
	t.Setenv("HOLDFOLIO_DB_PATH", "/tmp/test.db")
	t.Setenv("HOLDFOLIO_CACHE_TTL", "5")

	cfg := NewConfig()
	cfg.LoadFromEnvironment()

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "key-from-env", cfg.HoldedAPIKey)
	assert.Equal(t, "http://localhost:8081/api", cfg.HoldedBaseURL)
	assert.Equal(t, "trigger-token", cfg.SyncToken)
	assert.Equal(t, ClassifierRandom, cfg.Classifier)
	assert.Equal(t, "/tmp/test.db", cfg.DatabasePath)
	assert.Equal(t, 5*time.Second, cfg.CacheTTL)
}

func TestLoadFromEnvironmentIgnoresInvalidPort(t *testing.T) {
	t.Setenv("HOLDFOLIO_PORT", "not-a-number")

	cfg := NewConfig()
	cfg.LoadFromEnvironment()

	assert.Equal(t, 8090, cfg.Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "privileged port",
			mutate:  func(c *Config) { c.Port = 80 },
			wantErr: "port must be between",
		},
		{
			name:    "empty base URL",
			mutate:  func(c *Config) { c.HoldedBaseURL = "" },
			wantErr: "base URL cannot be empty",
		},
		{
			name:    "empty database path",
			mutate:  func(c *Config) { c.DatabasePath = "" },
			wantErr: "database path cannot be empty",
		},
		{
			name:    "unknown classifier mode",
			mutate:  func(c *Config) { c.Classifier = "coinflip" },
			wantErr: "unknown classifier mode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
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

func TestValidateForSyncRequiresAPIKey(t *testing.T) {
	cfg := NewConfig()

	err := cfg.ValidateForSync()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HOLDED_API_KEY")

	cfg.HoldedAPIKey = "some-key"
	assert.NoError(t, cfg.ValidateForSync())
}
