package cache

import (
	"fmt"
	"log"
	"time"
)

// Config holds the tunables for an Engine.
type Config struct {
	// DefaultTTL applies when Set is called with a zero TTL. Must be greater than 0.
	DefaultTTL time.Duration

	// MaxCapacity is the maximum number of entries. Must be greater than 0.
	MaxCapacity int

	// EvictionPercent is the share of MaxCapacity removed in one eviction batch.
	// Must be between 1 and 100. At least one entry is always evicted.
	EvictionPercent int

	// CleanupInterval is the sweep period used by callers that start cleanup
	// from config. The engine itself never starts the sweep implicitly.
	CleanupInterval time.Duration

	// Logger receives eviction and invariant messages. Nil means log.Default().
	Logger *log.Logger
}

// DefaultConfig returns the baseline configuration.
func DefaultConfig() Config {
	return Config{
		DefaultTTL:      5 * time.Minute,
		MaxCapacity:     1000,
		EvictionPercent: 10,
		CleanupInterval: 60 * time.Second,
	}
}

// Validate checks whether the configuration values are usable.
func (c Config) Validate() error {
	if c.DefaultTTL <= 0 {
		return fmt.Errorf("%w: DefaultTTL must be greater than 0", ErrInvalidConfig)
	}
	if c.MaxCapacity <= 0 {
		return fmt.Errorf("%w: MaxCapacity must be greater than 0", ErrInvalidConfig)
	}
	if c.EvictionPercent < 1 || c.EvictionPercent > 100 {
		return fmt.Errorf("%w: EvictionPercent must be between 1 and 100", ErrInvalidConfig)
	}
	if c.CleanupInterval < 0 {
		return fmt.Errorf("%w: CleanupInterval must not be negative", ErrInvalidConfig)
	}
	return nil
}

// evictionBatch is the number of entries removed per eviction round.
func (c Config) evictionBatch() int {
	n := c.MaxCapacity * c.EvictionPercent / 100
	if n < 1 {
		return 1
	}
	return n
}
