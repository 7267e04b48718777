package ratelimit

import (
	"path"
	"strings"
)

// MatchEndpoint returns the configuration limiting a request, or nil when the
// request is unlimited. The request path is cleaned first, so "/validate/",
// "//process" and "/reports/../validate" count against the same bucket as the
// route they reach. Methods compare case-insensitively. A config path ending
// in "/" matches every path below it.
func MatchEndpoint(requestPath string, method string, configs []EndpointConfig) *EndpointConfig {
	clean := cleanPath(requestPath)
	if clean == "/health" {
		return &EndpointConfig{}
	}

	var prefix *EndpointConfig
	for i := range configs {
		config := &configs[i]
		if !strings.EqualFold(config.Method, method) {
			continue
		}
		if config.Path == clean {
			return config
		}
		if prefix == nil && strings.HasSuffix(config.Path, "/") && strings.HasPrefix(clean, config.Path) {
			prefix = config
		}
	}
	return prefix
}

// Key returns the bucket key for a request, built from the cleaned path.
func Key(clientID, requestPath, method string) string {
	return clientID + ":" + strings.ToUpper(method) + ":" + cleanPath(requestPath)
}

func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	return path.Clean("/" + p)
}
