package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// ProviderCredentials holds the API keys for the scraping providers. They are
// injected into the adapters at construction; nothing below the config layer
// reads the environment.
type ProviderCredentials struct {
	OutscraperAPIKey string
	ApifyAPIToken    string
}

// GHLConfig holds the GoHighLevel CRM connection settings.
type GHLConfig struct {
	APIKey     string
	LocationID string
	BaseURL    string
}

// Config aggregates application-wide configuration values.
type Config struct {
	DatabaseURL     string
	JWTSecret       string
	Port            string
	AuditWorkerURL  string
	Providers       ProviderCredentials
	GHL             GHLConfig
	RateLimitScrape RateLimitConfig
	TokenTTL        time.Duration
	ScrapeLimit     int
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		JWTSecret:      getEnv("JWT_SECRET", "dev-secret"),
		Port:           getEnv("PORT", "8080"),
		AuditWorkerURL: getEnv("AUDIT_WORKER_URL", "http://audit-worker:9000"),
		Providers: ProviderCredentials{
			OutscraperAPIKey: os.Getenv("OUTSCRAPER_API_KEY"),
			ApifyAPIToken:    os.Getenv("APIFY_API_TOKEN"),
		},
		GHL: GHLConfig{
			APIKey:     os.Getenv("GHL_API_KEY"),
			LocationID: os.Getenv("GHL_LOCATION_ID"),
			BaseURL:    getEnv("GHL_BASE_URL", "https://rest.gohighlevel.com/v1"),
		},
		TokenTTL:    parseDuration(getEnv("JWT_TTL", "24h")),
		ScrapeLimit: parsePositiveInt(getEnv("SCRAPE_RESULT_LIMIT", "30"), 30),
	}

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_SCRAPE", "5/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_SCRAPE value: %w", err)
	}
	cfg.RateLimitScrape = rl

	return cfg, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

func parsePositiveInt(input string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
