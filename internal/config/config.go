package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"tracker-api/internal/cache"
)

// Config is the process configuration, read from the environment.
type Config struct {
	Port       string
	DBPath     string
	DBLogLevel string

	JWTSecret   string
	JWTIssuer   string
	JWTAudience string

	Cache cache.Config
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// Load reads the configuration. Unset variables take their defaults; set but
// malformed ones are an error.
func Load() (Config, error) {
	cfg := Config{
		Port:        getEnv("PORT", ":8008"),
		DBPath:      getEnv("DB_PATH", "tracker.db"),
		DBLogLevel:  getEnv("DB_LOG_LEVEL", "info"),
		JWTSecret:   getEnv("JWT_SECRET", "development-insecure-secret-change-me"),
		JWTIssuer:   getEnv("JWT_ISSUER", "tracker-api"),
		JWTAudience: getEnv("JWT_AUDIENCE", "tracker-clients"),
		Cache:       cache.DefaultConfig(),
	}

	var err error
	if cfg.Cache.DefaultTTL, err = getDuration("CACHE_DEFAULT_TTL", cfg.Cache.DefaultTTL); err != nil {
		return Config{}, err
	}
	if cfg.Cache.CleanupInterval, err = getDuration("CACHE_CLEANUP_INTERVAL", cfg.Cache.CleanupInterval); err != nil {
		return Config{}, err
	}
	if cfg.Cache.MaxCapacity, err = getInt("CACHE_MAX_CAPACITY", cfg.Cache.MaxCapacity); err != nil {
		return Config{}, err
	}
	if cfg.Cache.EvictionPercent, err = getInt("CACHE_EVICTION_PERCENT", cfg.Cache.EvictionPercent); err != nil {
		return Config{}, err
	}
	if err := cfg.Cache.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
