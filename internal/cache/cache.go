package cache

import (
	"errors"
	"time"
)

var (
	// ErrInvalidTTL is returned when a negative TTL is supplied.
	ErrInvalidTTL = errors.New("cache: ttl must not be negative")

	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("cache: invalid config")

	// ErrInvalidPattern is returned when an invalidation pattern does not compile.
	ErrInvalidPattern = errors.New("cache: invalid pattern")

	// ErrTypeMismatch is returned when a cached value is not of the requested type.
	ErrTypeMismatch = errors.New("cache: cached value has unexpected type")

	// ErrInvalidInterval is returned when the cleanup interval is not positive.
	ErrInvalidInterval = errors.New("cache: cleanup interval must be positive")

	// ErrCleanupRunning is returned when StartCleanup is called twice without StopCleanup.
	ErrCleanupRunning = errors.New("cache: cleanup already running")
)

// Cache is the key-value API consumed by handlers and services.
// A TTL of zero means the configured default; a negative TTL is rejected.
type Cache interface {
	// Get returns the value and whether it was present and live. It is the only
	// operation that records hits and misses.
	Get(key string) (any, bool)

	// Set stores or fully replaces the entry for key.
	Set(key string, value any, ttl time.Duration) error

	// Delete removes a key and reports whether a live entry was removed.
	Delete(key string) bool

	// Has reports whether a key is present and live without touching stats.
	Has(key string) bool

	// Len returns the number of stored entries, including expired ones not yet swept.
	Len() int

	// Clear removes all entries and resets stats.
	Clear()

	// PurgeExpired removes expired entries and returns how many were removed.
	PurgeExpired() int

	// DeleteByPattern removes every key matching the regular expression.
	DeleteByPattern(pattern string) (int, error)

	// GetStats returns a snapshot of the counters.
	GetStats() Stats
}

// Ensure Engine implements Cache at compile time.
var _ Cache = (*Engine)(nil)
