package config_test

import (
	"testing"
	"time"

	"datingroulette/backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "localhost:6380", cfg.RedisAddr)
	assert.Equal(t, 5*time.Minute, cfg.AttributeCacheTTL)
	assert.Equal(t, 256, cfg.AuditBuffer)
	assert.Equal(t, 72*time.Hour, cfg.TokenTTL)
	assert.Empty(t, cfg.NATSURL)
	assert.False(t, cfg.Development())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_ENV", "development")
	t.Setenv("ATTRIBUTE_CACHE_TTL", "30s")
	t.Setenv("NATS_URL", "nats://localhost:4222")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.True(t, cfg.Development())
	assert.Equal(t, 30*time.Second, cfg.AttributeCacheTTL)
	assert.Equal(t, "nats://localhost:4222", cfg.NATSURL)
}

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()

	assert.Error(t, err)
}

func TestLoad_RejectsEmptyBuffers(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("AUDIT_BUFFER", "0")

	_, err := config.Load()

	assert.Error(t, err)
}
