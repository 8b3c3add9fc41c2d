package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 20*time.Second, cfg.ScanInterval)
	assert.Equal(t, 5*time.Second, cfg.FastScanInterval)
	assert.Equal(t, 5*time.Second, cfg.ActiveScanDuration)
	assert.Equal(t, 60*time.Second, cfg.ExpirationInterval)
	assert.Empty(t, cfg.UUIDFilter)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "rejects zero scan interval",
			mutate:  func(c *Config) { c.ScanInterval = 0 },
			wantErr: "scan_interval must be positive",
		},
		{
			name:    "rejects negative expiration interval",
			mutate:  func(c *Config) { c.ExpirationInterval = -time.Second },
			wantErr: "expiration_interval must be positive",
		},
		{
			name:    "rejects malformed uuid filter",
			mutate:  func(c *Config) { c.UUIDFilter = "not-a-uuid" },
			wantErr: "not a hyphenated UUID",
		},
		{
			name:    "rejects unknown log level",
			mutate:  func(c *Config) { c.LogLevel = "chatty" },
			wantErr: "invalid log_level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateNormalizesUUIDFilter(t *testing.T) {
	cfg := Default()
	cfg.UUIDFilter = "E2C56DB5-DFFB-48D2-B060-D0F5A71096E0"

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "e2c56db5-dffb-48d2-b060-d0f5a71096e0", cfg.UUIDFilter)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lantern.yaml")
	content := `
scan_interval: 30s
fast_scan_interval: 2s
uuid_filter: e2c56db5-dffb-48d2-b060-d0f5a71096e0
log_level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.ScanInterval)
	assert.Equal(t, 2*time.Second, cfg.FastScanInterval)
	// Untouched fields keep defaults.
	assert.Equal(t, 5*time.Second, cfg.ActiveScanDuration)
	assert.Equal(t, 60*time.Second, cfg.ExpirationInterval)
	assert.Equal(t, "e2c56db5-dffb-48d2-b060-d0f5a71096e0", cfg.UUIDFilter)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("bad duration", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("scan_interval: fast\n"), 0o644))

		_, err := Load(path)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid scan_interval")
	})

	t.Run("not yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("{["), 0o644))

		_, err := Load(path)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})
}

func TestNewLogger(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "debug"

	logger := cfg.NewLogger()

	require.NotNil(t, logger)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	formatter, ok := logger.Formatter.(*logrus.TextFormatter)
	require.True(t, ok)
	assert.True(t, formatter.FullTimestamp)
	assert.Equal(t, time.RFC3339, formatter.TimestampFormat)
}
