// Package config loads runtime settings for the dockeeper CLI.
//
// Sources are applied in order, later ones winning: built-in defaults,
// environment variables (including a .env file when present), an optional
// JSON file (-c/-config), and command-line flags.
package config

import (
	"errors"
	"time"
)

var (
	ErrMissingGatewayURL    = errors.New("gateway URL is required")
	ErrMissingGatewayKey    = errors.New("gateway API key is required")
	ErrMissingGenerationKey = errors.New("generation API key is required")
)

// Config holds runtime settings for the dockeeper CLI.
type Config struct {
	// GatewayBaseURL is the base URL of the remote record store.
	GatewayBaseURL string
	// GatewayAPIKey authenticates every gateway request.
	GatewayAPIKey string
	// AccessToken is the user's session token (JWT); may be empty at start,
	// in which case the client runs in local-only mode until one is set.
	AccessToken string

	// GenerationBaseURL and GenerationAPIKey configure the text-generation
	// backend used by the completion cache.
	GenerationBaseURL string
	GenerationAPIKey  string

	// DatabasePath is the location of the local SQLite store.
	DatabasePath string

	// OnlineCheckInterval is how often the client probes gateway
	// reachability.
	OnlineCheckInterval time.Duration

	// MaxSyncRetries caps automatic retries per record; records at the cap
	// are skipped until errors are reset manually.
	MaxSyncRetries int

	// CacheTTL is the lifetime of memoized generation results.
	CacheTTL time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.GenerationBaseURL = "https://generate.dockeeper.app"
	c.DatabasePath = "dockeeper.db"
	c.OnlineCheckInterval = 3 * time.Second
	c.MaxSyncRetries = 5
	c.CacheTTL = 24 * time.Hour
}

// Validate checks startup preconditions. Missing credentials are fatal at
// process start, never discovered mid-operation.
func (c *Config) Validate() error {
	if c.GatewayBaseURL == "" {
		return ErrMissingGatewayURL
	}
	if c.GatewayAPIKey == "" {
		return ErrMissingGatewayKey
	}
	if c.GenerationAPIKey == "" {
		return ErrMissingGenerationKey
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags (if present).
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
