package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Default presence tuning. The window and the sweep cadence match: a
// member that misses every heartbeat for one window is gone within two.
const (
	DefaultPresenceWindow  = 5 * time.Minute
	DefaultSweepInterval   = 5 * time.Minute
	DefaultMaxPayloadBytes = 4096
)

// Config holds all configuration for the realtime service.
type Config struct {
	Port string
	Env  string

	// Presence tuning
	PresenceWindow  time.Duration // heartbeat age after which a member is considered absent
	SweepInterval   time.Duration // cadence of the registry sweep / room prune ticker
	MaxPayloadBytes int64         // maximum inbound frame and broadcast payload size

	// RedisURL enables the cross-process fan-out adapter when set.
	RedisURL string

	// InternalToken guards the /internal publish routes used by the
	// platform's HTTP business logic.
	InternalToken string
}

// Load reads configuration from environment variables.
// In development, it loads from .env file if present.
// In production, it panics on missing required variables.
func Load() *Config {
	// Load .env file if it exists (for development)
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("ENV", "development"),
		PresenceWindow:  getDuration("PRESENCE_WINDOW", DefaultPresenceWindow),
		SweepInterval:   getDuration("SWEEP_INTERVAL", DefaultSweepInterval),
		MaxPayloadBytes: getInt64("MAX_PAYLOAD_BYTES", DefaultMaxPayloadBytes),
		RedisURL:        os.Getenv("REDIS_URL"),
		InternalToken:   os.Getenv("INTERNAL_TOKEN"),
	}

	// The publish routes must not run unguarded outside development
	if cfg.Env == "production" && cfg.InternalToken == "" {
		panic("INTERNAL_TOKEN is required in production")
	}

	return cfg
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

func getInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
