package cache

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// entry stores a cached value with its insertion time and lifetime.
type entry struct {
	value       any
	insertedAt  time.Time
	ttl         time.Duration
	accessCount uint64
	seq         uint64 // insertion order, breaks insertedAt ties during eviction
}

// live reports whether the entry is still valid at the given instant.
// An elapsed time equal to the TTL counts as expired.
func (e *entry) live(at time.Time) bool {
	return at.Sub(e.insertedAt) < e.ttl
}

// Engine is a map-backed TTL cache with a capacity ceiling.
// All methods are safe for concurrent use. Build one per process with New and
// pass it to the components that need it.
type Engine struct {
	mu    sync.RWMutex
	items map[string]*entry
	seq   uint64

	hits        uint64
	misses      uint64
	evictions   uint64
	expirations uint64

	defaultTTL  time.Duration
	maxCapacity int
	evictBatch  int
	logger      *log.Logger

	flight singleflight.Group

	cleanupMu     sync.Mutex
	cleanupCancel context.CancelFunc
	cleanupDone   chan struct{}
}

// sweepChunk bounds how many deletions run under a single write lock during
// PurgeExpired and DeleteByPattern.
const sweepChunk = 256

// now is a small indirection to allow test stubbing.
var now = time.Now

// New validates cfg and constructs an empty Engine. The cleanup sweep is not
// started; call StartCleanup.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{
		items:       make(map[string]*entry),
		defaultTTL:  cfg.DefaultTTL,
		maxCapacity: cfg.MaxCapacity,
		evictBatch:  cfg.evictionBatch(),
		logger:      logger,
	}, nil
}

// Get implements Cache.Get. Expired entries are removed and counted as misses.
func (e *Engine) Get(key string) (any, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ent, ok := e.items[key]
	if !ok {
		e.misses++
		return nil, false
	}
	if !ent.live(now()) {
		delete(e.items, key)
		e.expirations++
		e.misses++
		return nil, false
	}
	ent.accessCount++
	e.hits++
	return ent.value, true
}

// Set implements Cache.Set. A zero ttl selects the default TTL.
func (e *Engine) Set(key string, value any, ttl time.Duration) error {
	ttl, err := e.resolveTTL(ttl)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.setLocked(key, value, ttl)
	return nil
}

func (e *Engine) resolveTTL(ttl time.Duration) (time.Duration, error) {
	if ttl < 0 {
		return 0, fmt.Errorf("%w: got %s", ErrInvalidTTL, ttl)
	}
	if ttl == 0 {
		return e.defaultTTL, nil
	}
	return ttl, nil
}

func (e *Engine) setLocked(key string, value any, ttl time.Duration) {
	at := now()
	if _, exists := e.items[key]; !exists && len(e.items) >= e.maxCapacity {
		e.makeRoomLocked(at)
	}

	e.seq++
	e.items[key] = &entry{
		value:      value,
		insertedAt: at,
		ttl:        ttl,
		seq:        e.seq,
	}

	if len(e.items) > e.maxCapacity {
		e.logger.Printf("cache: capacity invariant violated: size=%d max=%d", len(e.items), e.maxCapacity)
	}
}

// makeRoomLocked drops expired entries first; if that does not free a slot it
// evicts the oldest batch of live entries by insertion time.
func (e *Engine) makeRoomLocked(at time.Time) {
	for k, ent := range e.items {
		if !ent.live(at) {
			delete(e.items, k)
			e.expirations++
		}
	}
	if len(e.items) < e.maxCapacity {
		return
	}

	type candidate struct {
		key        string
		insertedAt time.Time
		seq        uint64
	}
	candidates := make([]candidate, 0, len(e.items))
	for k, ent := range e.items {
		candidates = append(candidates, candidate{key: k, insertedAt: ent.insertedAt, seq: ent.seq})
	}
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if !a.insertedAt.Equal(b.insertedAt) {
			return a.insertedAt.Before(b.insertedAt)
		}
		return a.seq < b.seq
	})

	n := min(e.evictBatch, len(candidates))
	for _, c := range candidates[:n] {
		delete(e.items, c.key)
	}
	e.evictions += uint64(n)
	e.logger.Printf("cache: evicted %d oldest entries (capacity %d)", n, e.maxCapacity)
}

// Delete implements Cache.Delete. An expired entry is removed but reported as
// not deleted, since it was already absent to readers.
func (e *Engine) Delete(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	ent, ok := e.items[key]
	if !ok {
		return false
	}
	delete(e.items, key)
	if !ent.live(now()) {
		e.expirations++
		return false
	}
	return true
}

// Has implements Cache.Has.
func (e *Engine) Has(key string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ent, ok := e.items[key]
	return ok && ent.live(now())
}

// Len implements Cache.Len.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.items)
}

// Clear implements Cache.Clear.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.items = make(map[string]*entry)
	e.hits, e.misses, e.evictions, e.expirations = 0, 0, 0, 0
}

// PurgeExpired implements Cache.PurgeExpired. Expired keys are collected under
// a read lock and deleted in chunks, re-checked under the write lock in case
// they were replaced in between.
func (e *Engine) PurgeExpired() int {
	e.mu.RLock()
	at := now()
	var expired []string
	for k, ent := range e.items {
		if !ent.live(at) {
			expired = append(expired, k)
		}
	}
	e.mu.RUnlock()

	return e.deleteChunked(expired, true)
}

// DeleteByPattern implements Cache.DeleteByPattern. pattern uses Go's RE2
// syntax and matches anywhere in the key unless anchored.
func (e *Engine) DeleteByPattern(pattern string) (int, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, pattern, err)
	}

	e.mu.RLock()
	var matched []string
	for k := range e.items {
		if re.MatchString(k) {
			matched = append(matched, k)
		}
	}
	e.mu.RUnlock()

	return e.deleteChunked(matched, false), nil
}

// deleteChunked removes keys in batches of sweepChunk. With expiredOnly set, a
// key is skipped unless its current entry is expired.
func (e *Engine) deleteChunked(keys []string, expiredOnly bool) int {
	removed := 0
	for start := 0; start < len(keys); start += sweepChunk {
		end := min(start+sweepChunk, len(keys))

		e.mu.Lock()
		at := now()
		for _, k := range keys[start:end] {
			ent, ok := e.items[k]
			if !ok {
				continue
			}
			if expiredOnly && ent.live(at) {
				continue
			}
			delete(e.items, k)
			removed++
			if expiredOnly {
				e.expirations++
			}
		}
		e.mu.Unlock()
	}
	return removed
}

// Item is one input row for SetMany.
type Item struct {
	Key   string
	Value any
	TTL   time.Duration
}

// Lookup is one result row from GetMany.
type Lookup struct {
	Key   string
	Value any
	Found bool
}

// SetMany applies Set to each item in order. It stops at the first invalid
// item; items before it stay applied.
func (e *Engine) SetMany(items []Item) error {
	for i, it := range items {
		if err := e.Set(it.Key, it.Value, it.TTL); err != nil {
			return fmt.Errorf("set item %d (%q): %w", i, it.Key, err)
		}
	}
	return nil
}

// GetMany calls Get for each key and returns the results in input order.
func (e *Engine) GetMany(keys []string) []Lookup {
	out := make([]Lookup, 0, len(keys))
	for _, k := range keys {
		v, ok := e.Get(k)
		out = append(out, Lookup{Key: k, Value: v, Found: ok})
	}
	return out
}
