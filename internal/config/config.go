// Package config holds the process-wide configuration for the analysis
// client. It is read once at startup and passed into the core as an
// explicit value; nothing in the core reads the environment directly.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Defaults applied when the corresponding environment variable is unset.
const (
	DefaultServerURL      = "http://localhost:8000"
	DefaultRequestTimeout = 120 * time.Second
)

// Config is the read-only process configuration.
type Config struct {
	// ServerURL is the primary analysis service endpoint.
	ServerURL string

	// FallbackURLs are additional endpoints tried in order after ServerURL.
	FallbackURLs []string

	// APIKey is forwarded as a bearer token when non-empty.
	APIKey string

	// Debug enables verbose tracing of analysis calls.
	Debug bool

	// RequestTimeout bounds a single endpoint attempt.
	RequestTimeout time.Duration
}

// Load reads the configuration from the environment.
func Load() *Config {
	return &Config{
		ServerURL:      getEnv("MCP_SERVER_URL", DefaultServerURL),
		FallbackURLs:   splitURLs(os.Getenv("MCP_FALLBACK_URLS")),
		APIKey:         os.Getenv("MCP_API_KEY"),
		Debug:          strings.EqualFold(os.Getenv("MCP_DEBUG"), "true"),
		RequestTimeout: getDuration("MCP_REQUEST_TIMEOUT_SECONDS", DefaultRequestTimeout),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return def
	}
	return time.Duration(secs) * time.Second
}

func splitURLs(raw string) []string {
	if raw == "" {
		return nil
	}
	var urls []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			urls = append(urls, trimmed)
		}
	}
	return urls
}
