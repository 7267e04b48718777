package ratelimit

import (
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// NewConfig returns the configuration for the document endpoints: perMinute
// requests per client on each POST endpoint, everything else unlimited.
// perMinute <= 0 disables limiting.
func NewConfig(perMinute int) *Config {
	if perMinute <= 0 {
		return &Config{Enabled: false}
	}
	return &Config{
		Enabled:         true,
		DefaultLimit:    0,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		Whitelist:       make(map[string]bool),
		Blacklist:       make(map[string]bool),
		EndpointConfigs: DefaultEndpointConfigs(perMinute),
	}
}

// DefaultEndpointConfigs limits the endpoints that run the pipeline.
func DefaultEndpointConfigs(perMinute int) []EndpointConfig {
	return []EndpointConfig{
		{Path: "/process", Method: "POST", Limit: perMinute, Window: time.Minute},
		{Path: "/process/stream", Method: "POST", Limit: perMinute, Window: time.Minute},
		{Path: "/validate", Method: "POST", Limit: perMinute, Window: time.Minute},
	}
}

// ParseIPList parses a comma-separated list of IP addresses into a set.
func ParseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
