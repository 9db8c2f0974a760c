package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CACHE_TTL", "not-a-duration")
	t.Setenv("RATE_LIMIT_PER_SECOND", "many")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
	assert.Equal(t, 20, cfg.RateLimitPerSecond)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", BackendFirestore)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendFirestore, cfg.StoreBackend)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, 3, cfg.RedisDB)
}

func TestUsesFirebase(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{"realtime", Config{StoreBackend: BackendRealtime}, true},
		{"firestore", Config{StoreBackend: BackendFirestore}, true},
		{"memory_without_credentials", Config{StoreBackend: BackendMemory}, false},
		{"memory_with_credentials", Config{StoreBackend: BackendMemory, FirebaseServiceAccountPath: "sa.json"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.cfg.UsesFirebase())
		})
	}
}
