package magickit

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

// ResultCache memoizes buffer classification results. Classifying the
// same bytes under the same flags always yields the same description
// (the fixed-locale guard is what makes that true), so repeated lookups
// can skip the native call entirely.
//
// The cache is thread-safe and keyed by a 64-bit hash of content and
// flags; entries optionally expire after a TTL.
type ResultCache struct {
	mu      sync.RWMutex
	entries map[uint64]*cacheEntry
	ttl     time.Duration
	hits    int64
	misses  int64
}

// cacheEntry is a single memoized description with optional expiry.
type cacheEntry struct {
	result     string
	expiration time.Time
	hasExpiry  bool
}

// CacheStatistics contains cache performance metrics.
type CacheStatistics struct {
	Hits    int64
	Misses  int64
	Size    int64
	HitRate float64
}

// NewResultCache creates a result cache. A TTL of 0 means entries never
// expire (until the database or flags change and the cache is
// invalidated).
func NewResultCache(ttl time.Duration) *ResultCache {
	return &ResultCache{
		entries: make(map[uint64]*cacheEntry),
		ttl:     ttl,
	}
}

// cacheKey hashes content and flags into a cache key.
func cacheKey(data []byte, flags Flag) uint64 {
	h := xxhash.New()
	_, _ = h.Write(data)

	var tail [8]byte
	binary.LittleEndian.PutUint64(tail[:], uint64(flags))
	_, _ = h.Write(tail[:])
	return h.Sum64()
}

// Get retrieves a memoized result.
func (c *ResultCache) Get(key uint64) (string, bool) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		c.mu.Lock()
		c.misses++
		c.mu.Unlock()
		return "", false
	}

	if entry.hasExpiry && time.Now().After(entry.expiration) {
		c.mu.Lock()
		delete(c.entries, key)
		c.misses++
		c.mu.Unlock()
		return "", false
	}

	c.mu.Lock()
	c.hits++
	c.mu.Unlock()
	return entry.result, true
}

// Set stores a result under the given key.
func (c *ResultCache) Set(key uint64, result string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := &cacheEntry{result: result}
	if c.ttl > 0 {
		entry.expiration = time.Now().Add(c.ttl)
		entry.hasExpiry = true
	}
	c.entries[key] = entry
}

// Invalidate removes all entries. Called when the loaded database or
// the flags change, since either changes what a classification returns.
func (c *ResultCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uint64]*cacheEntry)
}

// Stats returns cache statistics.
func (c *ResultCache) Stats() CacheStatistics {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := CacheStatistics{
		Hits:   c.hits,
		Misses: c.misses,
		Size:   int64(len(c.entries)),
	}
	if total := c.hits + c.misses; total > 0 {
		stats.HitRate = float64(c.hits) / float64(total)
	}
	return stats
}
