package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFromDefaults(t *testing.T) {
	cfg, err := LoadFrom("")
	require.NoError(t, err)

	assert.Equal(t, 8050, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "data/vgsales.csv", cfg.Data.CSVPath)
	assert.Equal(t, 1980, cfg.Data.MinYear)
	assert.Equal(t, 15, cfg.Processing.TopPublishers)
	assert.Equal(t, 10, cfg.Processing.TopPlatforms)
	assert.Equal(t, 10, cfg.Processing.TopGenres)
	assert.Equal(t, 10, cfg.Processing.TopGames)
	assert.Equal(t, 100, cfg.Cache.MaxEntries)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 30, cfg.Logging.RetainDays)
}

func TestLoadFromFileOverlaysDefaults(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 9000
data:
  csv_path: /srv/vgsales.csv
processing:
  top_games: 25
`)

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "/srv/vgsales.csv", cfg.Data.CSVPath)
	assert.Equal(t, 25, cfg.Processing.TopGames)
	// untouched keys keep their defaults
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 15, cfg.Processing.TopPublishers)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, "server:\n  port: 9000\n")
	t.Setenv("VGS_SERVER_PORT", "9100")
	t.Setenv("VGS_DATA_MIN_YEAR", "1990")
	t.Setenv("VGS_SECURITY_ALLOWED_ORIGINS", "http://a.example,http://b.example")
	t.Setenv("VGS_CACHE_TTL", "5m")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, 1990, cfg.Data.MinYear)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.Security.AllowedOrigins)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"bad port", map[string]string{"VGS_SERVER_PORT": "70000"}, "invalid server port"},
		{"bad min year", map[string]string{"VGS_DATA_MIN_YEAR": "10"}, "invalid minimum year"},
		{"zero top n", map[string]string{"VGS_PROCESSING_TOP_GAMES": "0"}, "top_games"},
		{"negative cache", map[string]string{"VGS_CACHE_MAX_ENTRIES": "-1"}, "cache max entries"},
		{"unparsable", map[string]string{"VGS_SERVER_PORT": "eighty"}, "failed to load config from env"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadFrom("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadNormalizesLogging(t *testing.T) {
	t.Setenv("VGS_LOGGING_FORMAT", "text")
	t.Setenv("VGS_LOGGING_OUTPUT", "syslog")

	cfg, err := LoadFrom("")
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "both", cfg.Logging.Output)
}

func TestLoadUsesConfigFileEnv(t *testing.T) {
	path := writeConfigFile(t, "server:\n  port: 9300\n")
	t.Setenv("VGS_CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9300, cfg.Server.Port)
}

func TestAddress(t *testing.T) {
	cfg := Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 8123
	assert.Equal(t, "127.0.0.1:8123", cfg.Address())
}
