package config

import (
	"testing"
	"time"

	"tracker-api/internal/cache"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8008", cfg.Port)
	require.Equal(t, 5*time.Minute, cfg.Cache.DefaultTTL)
	require.Equal(t, 1000, cfg.Cache.MaxCapacity)
	require.Equal(t, 60*time.Second, cfg.Cache.CleanupInterval)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", ":9000")
	t.Setenv("CACHE_DEFAULT_TTL", "30s")
	t.Setenv("CACHE_MAX_CAPACITY", "50")
	t.Setenv("CACHE_CLEANUP_INTERVAL", "1s")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.Port)
	require.Equal(t, 30*time.Second, cfg.Cache.DefaultTTL)
	require.Equal(t, 50, cfg.Cache.MaxCapacity)
	require.Equal(t, time.Second, cfg.Cache.CleanupInterval)
}

func TestLoad_Malformed(t *testing.T) {
	t.Setenv("CACHE_DEFAULT_TTL", "five minutes")
	_, err := Load()
	require.Error(t, err)
}

func TestLoad_InvalidCacheConfig(t *testing.T) {
	t.Setenv("CACHE_MAX_CAPACITY", "0")
	_, err := Load()
	require.ErrorIs(t, err, cache.ErrInvalidConfig)
}
