package ratelimit

import (
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern, see MatchEndpoint
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// NewConfig builds a configuration allowing limit requests per window per
// client, with stricter defaults for ranking runs and token issuance. A
// non-positive limit disables rate limiting.
func NewConfig(limit int, window time.Duration) *Config {
	if limit <= 0 {
		return &Config{Enabled: false}
	}
	if window <= 0 {
		window = time.Minute
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    limit,
		DefaultWindow:   window,
		CleanupInterval: 5 * time.Minute,
		Whitelist:       make(map[string]bool),
		Blacklist:       make(map[string]bool),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
// A rule with a zero Limit is unlimited.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		{Path: "/health", Method: "GET"},
		// Scoring a pool is the expensive operation
		{Path: "/rankings/{requisition_id}", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},
		// Workbooks are built in memory per request
		{Path: "/rankings/{artifact_id}/export.xlsx", Method: "GET", Limit: 60, Window: time.Minute, Burst: 10},
		// Credential checks run bcrypt
		{Path: "/auth/token", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
	}
}
