package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with environment variables. A .env file in the
// working directory is loaded first when present; real environment variables
// win over .env values (godotenv does not override existing keys).
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("DOCKEEPER_GATEWAY_URL"); v != "" {
		cfg.GatewayBaseURL = v
	}
	if v := os.Getenv("DOCKEEPER_GATEWAY_KEY"); v != "" {
		cfg.GatewayAPIKey = v
	}
	if v := os.Getenv("DOCKEEPER_ACCESS_TOKEN"); v != "" {
		cfg.AccessToken = v
	}
	if v := os.Getenv("DOCKEEPER_GENERATION_URL"); v != "" {
		cfg.GenerationBaseURL = v
	}
	if v := os.Getenv("DOCKEEPER_GENERATION_KEY"); v != "" {
		cfg.GenerationAPIKey = v
	}
	if v := os.Getenv("DOCKEEPER_DB_PATH"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("DOCKEEPER_ONLINE_CHECK_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.OnlineCheckInterval = d
		}
	}
	if v := os.Getenv("DOCKEEPER_MAX_SYNC_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxSyncRetries = n
		}
	}
}
