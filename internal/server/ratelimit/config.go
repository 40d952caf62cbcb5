package ratelimit

import (
	"time"
)

// EndpointConfig is the limit for one route. Paths ending in "/" match by prefix.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int           // requests per window
	Window time.Duration
	Burst  int // defaults to Limit when zero
}

// Config holds rate limiting configuration
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTTL         time.Duration
	Whitelist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// ConfigFor returns the limits used by the API for a per-client budget of
// perMinute requests. Zero disables limiting.
func ConfigFor(perMinute int) *Config {
	if perMinute <= 0 {
		return &Config{Enabled: false}
	}
	return &Config{
		Enabled:         true,
		DefaultLimit:    perMinute,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		Whitelist:       make(map[string]bool),
		EndpointConfigs: DefaultEndpointConfigs(perMinute),
	}
}

// DefaultEndpointConfigs gives generation and capture a tighter share of the budget
func DefaultEndpointConfigs(perMinute int) []EndpointConfig {
	expensive := max(perMinute/6, 1)
	burst := max(expensive/2, 1)
	return []EndpointConfig{
		{Path: "/drafts", Method: "POST", Limit: expensive, Window: time.Minute, Burst: burst},
		{Path: "/drafts/stream", Method: "POST", Limit: expensive, Window: time.Minute, Burst: burst},
		{Path: "/captures", Method: "POST", Limit: expensive, Window: time.Minute, Burst: burst},
	}
}
