package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variables read by LoadConfig
const (
	EnvEnabled         = "MANUSCRIPT_RATE_LIMIT_ENABLED"
	EnvDefaultLimit    = "MANUSCRIPT_RATE_LIMIT_DEFAULT_LIMIT"
	EnvDefaultWindow   = "MANUSCRIPT_RATE_LIMIT_DEFAULT_WINDOW"
	EnvGenerationLimit = "MANUSCRIPT_RATE_LIMIT_GENERATION_LIMIT"
	EnvCleanupInterval = "MANUSCRIPT_RATE_LIMIT_CLEANUP_INTERVAL"
	EnvWhitelist       = "MANUSCRIPT_RATE_LIMIT_WHITELIST"
	EnvBlacklist       = "MANUSCRIPT_RATE_LIMIT_BLACKLIST"
)

// DefaultGenerationLimit is the hourly budget for requests that can trigger a
// model call.
const DefaultGenerationLimit = 60

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Path pattern; "*" matches one segment, a trailing "/" matches any suffix
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	enabled := getEnvBool(EnvEnabled, true)
	if !enabled {
		return &Config{
			Enabled: false,
		}
	}

	return &Config{
		Enabled:         enabled,
		DefaultLimit:    getEnvInt(EnvDefaultLimit, 600),
		DefaultWindow:   getEnvDuration(EnvDefaultWindow, time.Minute),
		CleanupInterval: getEnvDuration(EnvCleanupInterval, 5*time.Minute),
		Whitelist:       parseIPList(os.Getenv(EnvWhitelist)),
		Blacklist:       parseIPList(os.Getenv(EnvBlacklist)),
		EndpointConfigs: DefaultEndpointConfigs(getEnvInt(EnvGenerationLimit, DefaultGenerationLimit)),
	}
}

// DefaultEndpointConfigs returns the endpoint-specific configurations.
// generationLimit applies per hour to every request that may call the model.
func DefaultEndpointConfigs(generationLimit int) []EndpointConfig {
	burst := max(generationLimit/10, 1)
	return []EndpointConfig{
		// Generation: confirm, stream and retry
		{Path: "/sessions/*/confirm", Method: "POST", Limit: generationLimit, Window: time.Hour, Burst: burst},
		{Path: "/sessions/*/confirm/stream", Method: "POST", Limit: generationLimit, Window: time.Hour, Burst: burst},
		{Path: "/sessions/*/retry", Method: "POST", Limit: generationLimit, Window: time.Hour, Burst: burst},

		// Session lifecycle writes
		{Path: "/sessions", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/sessions/*/restart", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/sessions/", Method: "DELETE", Limit: 30, Window: time.Minute, Burst: 5},

		// Reads fall through to the default limit; /health is unlimited (see MatchEndpoint).
		// GET /sessions/{id} only generates an artifact a confirm left pending, at most
		// once per stage, so its model calls stay within the confirm budget.
	}
}

// getEnvInt gets an environment variable as an integer with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool gets an environment variable as a boolean with a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration gets an environment variable as a duration with a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
