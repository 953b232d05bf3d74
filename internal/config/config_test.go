package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, int64(1), cfg.DefaultBrokerID)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/funnels")
	t.Setenv("PORT", "9090")
	t.Setenv("DEFAULT_BROKER_ID", "7")
	t.Setenv("CACHE_TTL", "30s")

	cfg := Load()

	assert.Equal(t, "postgres://localhost:5432/funnels", cfg.DatabaseURL)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, int64(7), cfg.DefaultBrokerID)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
}
