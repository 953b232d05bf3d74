package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config is the opaque configuration object handed to the process at start:
// connection parameters, the default broker applied to newly provisioned
// funnels, and cache tuning.
type Config struct {
	DatabaseURL     string
	Port            string
	DefaultBrokerID int64
	CacheTTL        time.Duration
}

// Load reads configuration from the environment over built-in defaults.
// Environment keys: DATABASE_URL, PORT, DEFAULT_BROKER_ID, CACHE_TTL.
func Load() *Config {
	v := viper.New()

	v.SetDefault("port", "8080")
	v.SetDefault("default_broker_id", 1)
	v.SetDefault("cache_ttl", "10m")

	v.AutomaticEnv()
	// AutomaticEnv matches keys case-insensitively, so DATABASE_URL and
	// friends bind without a prefix.
	for _, key := range []string{"database_url", "port", "default_broker_id", "cache_ttl"} {
		_ = v.BindEnv(key)
	}

	return &Config{
		DatabaseURL:     v.GetString("database_url"),
		Port:            v.GetString("port"),
		DefaultBrokerID: v.GetInt64("default_broker_id"),
		CacheTTL:        v.GetDuration("cache_ttl"),
	}
}
