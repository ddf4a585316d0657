package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("PRESENCE_WINDOW", "")
	t.Setenv("SWEEP_INTERVAL", "")
	t.Setenv("MAX_PAYLOAD_BYTES", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("INTERNAL_TOKEN", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, DefaultPresenceWindow, cfg.PresenceWindow)
	assert.Equal(t, DefaultSweepInterval, cfg.SweepInterval)
	assert.Equal(t, int64(DefaultMaxPayloadBytes), cfg.MaxPayloadBytes)
	assert.Empty(t, cfg.RedisURL)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("PRESENCE_WINDOW", "90s")
	t.Setenv("SWEEP_INTERVAL", "2m")
	t.Setenv("MAX_PAYLOAD_BYTES", "8192")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("INTERNAL_TOKEN", "secret")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 90*time.Second, cfg.PresenceWindow)
	assert.Equal(t, 2*time.Minute, cfg.SweepInterval)
	assert.Equal(t, int64(8192), cfg.MaxPayloadBytes)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("PRESENCE_WINDOW", "soon")
	t.Setenv("SWEEP_INTERVAL", "-5m")
	t.Setenv("MAX_PAYLOAD_BYTES", "lots")
	t.Setenv("INTERNAL_TOKEN", "")

	cfg := Load()

	assert.Equal(t, DefaultPresenceWindow, cfg.PresenceWindow)
	assert.Equal(t, DefaultSweepInterval, cfg.SweepInterval)
	assert.Equal(t, int64(DefaultMaxPayloadBytes), cfg.MaxPayloadBytes)
}

func TestLoadProductionRequiresInternalToken(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("INTERNAL_TOKEN", "")

	assert.Panics(t, func() { Load() })
}
