package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/dockeeper/internal/flagx"
	"github.com/dmitrijs2005/dockeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "3s"
// or as integer nanoseconds.
type JsonConfig struct {
	GatewayBaseURL      string         `json:"gateway_base_url"`
	GatewayAPIKey       string         `json:"gateway_api_key"`
	AccessToken         string         `json:"access_token"`
	GenerationBaseURL   string         `json:"generation_base_url"`
	GenerationAPIKey    string         `json:"generation_api_key"`
	DatabasePath        string         `json:"database_path"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	MaxSyncRetries      int            `json:"max_sync_retries"`
	CacheTTL            timex.Duration `json:"cache_ttl"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path comes from the -c or -config flags; when absent nothing is loaded.
// Only fields present in the file override the current values.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.GatewayBaseURL != "" {
		cfg.GatewayBaseURL = jc.GatewayBaseURL
	}
	if jc.GatewayAPIKey != "" {
		cfg.GatewayAPIKey = jc.GatewayAPIKey
	}
	if jc.AccessToken != "" {
		cfg.AccessToken = jc.AccessToken
	}
	if jc.GenerationBaseURL != "" {
		cfg.GenerationBaseURL = jc.GenerationBaseURL
	}
	if jc.GenerationAPIKey != "" {
		cfg.GenerationAPIKey = jc.GenerationAPIKey
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.MaxSyncRetries > 0 {
		cfg.MaxSyncRetries = jc.MaxSyncRetries
	}
	if jc.CacheTTL.Duration > 0 {
		cfg.CacheTTL = jc.CacheTTL.Duration
	}
}
