package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var cfg Config
	cfg.LoadDefaults()

	require.Equal(t, "dockeeper.db", cfg.DatabasePath)
	require.Equal(t, 3*time.Second, cfg.OnlineCheckInterval)
	require.Equal(t, 5, cfg.MaxSyncRetries)
	require.Equal(t, 24*time.Hour, cfg.CacheTTL)
}

func TestValidate(t *testing.T) {
	var cfg Config
	cfg.LoadDefaults()

	require.ErrorIs(t, cfg.Validate(), ErrMissingGatewayURL)

	cfg.GatewayBaseURL = "https://records.example.com"
	require.ErrorIs(t, cfg.Validate(), ErrMissingGatewayKey)

	cfg.GatewayAPIKey = "anon-key"
	require.ErrorIs(t, cfg.Validate(), ErrMissingGenerationKey)

	cfg.GenerationAPIKey = "gen-key"
	require.NoError(t, cfg.Validate())
}

func TestParseEnv(t *testing.T) {
	t.Setenv("DOCKEEPER_GATEWAY_URL", "https://env.example.com")
	t.Setenv("DOCKEEPER_GATEWAY_KEY", "env-key")
	t.Setenv("DOCKEEPER_ONLINE_CHECK_INTERVAL", "10s")
	t.Setenv("DOCKEEPER_MAX_SYNC_RETRIES", "7")

	var cfg Config
	cfg.LoadDefaults()
	parseEnv(&cfg)

	require.Equal(t, "https://env.example.com", cfg.GatewayBaseURL)
	require.Equal(t, "env-key", cfg.GatewayAPIKey)
	require.Equal(t, 10*time.Second, cfg.OnlineCheckInterval)
	require.Equal(t, 7, cfg.MaxSyncRetries)
}

func TestParseJson(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"gateway_base_url": "https://json.example.com",
		"online_check_interval": "30s",
		"max_sync_retries": 3
	}`), 0o600))

	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"app", "-c", path}

	var cfg Config
	cfg.LoadDefaults()
	parseJson(&cfg)

	require.Equal(t, "https://json.example.com", cfg.GatewayBaseURL)
	require.Equal(t, 30*time.Second, cfg.OnlineCheckInterval)
	require.Equal(t, 3, cfg.MaxSyncRetries)
	// untouched fields keep defaults
	require.Equal(t, "dockeeper.db", cfg.DatabasePath)
}

func TestParseFlags(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"app", "-g", "https://flag.example.com", "-i", "15"}

	var cfg Config
	cfg.LoadDefaults()
	parseFlags(&cfg)

	require.Equal(t, "https://flag.example.com", cfg.GatewayBaseURL)
	require.Equal(t, 15*time.Second, cfg.OnlineCheckInterval)
}
