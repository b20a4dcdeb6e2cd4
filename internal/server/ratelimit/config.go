package ratelimit

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

const defaultLimit = 300

// EndpointConfig is a rate limit rule for one endpoint.
type EndpointConfig struct {
	Path   string        // Exact path, or a prefix when it ends with "/"
	Method string        // HTTP method
	Limit  int           // Requests per Window
	Window time.Duration // Refill window
	Burst  int           // Bucket capacity; defaults to Limit
	Exempt bool          // Never limited
}

// LoadConfig builds the limiter configuration from environment variables
// read through lookup (usually os.LookupEnv).
//
//	RATE_LIMIT_ENABLED          default true
//	RATE_LIMIT_DEFAULT_LIMIT    requests per window for unmatched routes, default 300
//	RATE_LIMIT_DEFAULT_WINDOW   default 1m
//	RATE_LIMIT_ANALYZE_LIMIT    analysis runs per window, default 20
//	RATE_LIMIT_ANALYZE_WINDOW   default 1h
//	RATE_LIMIT_CLEANUP_INTERVAL default 5m
//	RATE_LIMIT_WHITELIST        comma-separated client IPs
//	RATE_LIMIT_BLACKLIST        comma-separated client IPs
func LoadConfig(lookup func(string) (string, bool)) *Config {
	env := envReader{lookup: lookup}
	if !env.getBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	analyzeLimit := env.getInt("RATE_LIMIT_ANALYZE_LIMIT", 20)
	analyzeWindow := env.getDuration("RATE_LIMIT_ANALYZE_WINDOW", time.Hour)

	return &Config{
		Enabled:         true,
		DefaultLimit:    env.getInt("RATE_LIMIT_DEFAULT_LIMIT", defaultLimit),
		DefaultWindow:   env.getDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: env.getDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(env.getString("RATE_LIMIT_WHITELIST", "")),
		Blacklist:       parseIPList(env.getString("RATE_LIMIT_BLACKLIST", "")),
		EndpointConfigs: DefaultEndpointConfigs(analyzeLimit, analyzeWindow),
	}
}

// DefaultEndpointConfigs returns the rules for the analysis server.
// Each analysis route gets a strict bucket per client; report pages share a lenient one.
func DefaultEndpointConfigs(analyzeLimit int, analyzeWindow time.Duration) []EndpointConfig {
	burst := min(analyzeLimit, 3)
	return []EndpointConfig{
		{Path: "/health", Method: http.MethodGet, Exempt: true},
		{Path: "/static/", Method: http.MethodGet, Exempt: true},

		{Path: "/analyze", Method: http.MethodPost, Limit: analyzeLimit, Window: analyzeWindow, Burst: burst},
		{Path: "/api/analyze", Method: http.MethodPost, Limit: analyzeLimit, Window: analyzeWindow, Burst: burst},
		{Path: "/api/analyze/stream", Method: http.MethodPost, Limit: analyzeLimit, Window: analyzeWindow, Burst: burst},

		{Path: "/reports/", Method: http.MethodGet, Limit: 120, Window: time.Minute, Burst: 30},
	}
}

type envReader struct {
	lookup func(string) (string, bool)
}

func (e envReader) getString(key, def string) string {
	if e.lookup == nil {
		return def
	}
	if v, ok := e.lookup(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func (e envReader) getInt(key string, def int) int {
	if n, err := strconv.Atoi(e.getString(key, "")); err == nil {
		return n
	}
	return def
}

func (e envReader) getBool(key string, def bool) bool {
	if b, err := strconv.ParseBool(e.getString(key, "")); err == nil {
		return b
	}
	return def
}

func (e envReader) getDuration(key string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(e.getString(key, "")); err == nil {
		return d
	}
	return def
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
