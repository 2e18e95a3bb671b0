// Package config reads application configuration from environment
// variables.
package config

import (
	"os"
	"strconv"
	"time"

	"windratio/domain/core"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	NATS     NATSConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds SCADA database connection settings
type DatabaseConfig struct {
	URL string
}

// NATSConfig holds cluster-execution broker settings
type NATSConfig struct {
	URL         string
	Subject     string
	Queue       string
	Timeout     time.Duration
	MaxInFlight int
}

// Load reads configuration from environment variables. DATABASE_URL and
// NATS_URL stay optional here; the commands that need them check at use.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		NATS: NATSConfig{
			URL:         getEnvOrDefault("NATS_URL", "nats://127.0.0.1:4222"),
			Subject:     getEnvOrDefault("NATS_SUBJECT", "windratio.jobs"),
			Queue:       getEnvOrDefault("NATS_QUEUE", "windratio-workers"),
			Timeout:     getEnvDurationOrDefault("NATS_TIMEOUT", 2*time.Minute),
			MaxInFlight: getEnvIntOrDefault("NATS_MAX_IN_FLIGHT", 16),
		},
	}

	if cfg.NATS.MaxInFlight < 1 {
		return nil, core.NewConfigurationError("NATS_MAX_IN_FLIGHT", "must be at least 1")
	}
	return cfg, nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvIntOrDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDurationOrDefault(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
