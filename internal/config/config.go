package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	Fetch     FetchConfig
	Analytics AnalyticsConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port        string
	GinMode     string
	CORSOrigins []string
}

// FetchConfig holds upstream data fetching settings
type FetchConfig struct {
	Timeout time.Duration
}

// AnalyticsConfig holds column analysis tuning knobs
type AnalyticsConfig struct {
	MaxBins       int
	TopCategories int
	PreviewRows   int
	TrendPoints   int
}

// Load reads configuration from environment variables.
// DATABASE_URL is optional; without it the app runs on in-memory stores.
func Load() (*Config, error) {
	config := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Server: ServerConfig{
			Port:        getEnvOrDefault("PORT", "8080"),
			GinMode:     getEnvOrDefault("GIN_MODE", "debug"),
			CORSOrigins: splitOrigins(getEnvOrDefault("CORS_ORIGINS", "*")),
		},
		Fetch: FetchConfig{
			Timeout: getEnvDurationOrDefault("FETCH_TIMEOUT", 30*time.Second),
		},
		Analytics: AnalyticsConfig{
			MaxBins:       getEnvIntOrDefault("ANALYTICS_MAX_BINS", 10),
			TopCategories: getEnvIntOrDefault("ANALYTICS_TOP_CATEGORIES", 8),
			PreviewRows:   getEnvIntOrDefault("ANALYTICS_PREVIEW_ROWS", 100),
			TrendPoints:   getEnvIntOrDefault("ANALYTICS_TREND_POINTS", 500),
		},
	}

	return config, nil
}

func splitOrigins(value string) []string {
	parts := strings.Split(value, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
