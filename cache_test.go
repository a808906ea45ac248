package magickit

import (
	"testing"
	"time"
)

func TestResultCacheSetGet(t *testing.T) {
	cache := NewResultCache(0)

	key := cacheKey([]byte("hello"), FlagNone)
	if _, ok := cache.Get(key); ok {
		t.Error("Get() hit on an empty cache")
	}

	cache.Set(key, "ASCII text")
	result, ok := cache.Get(key)
	if !ok {
		t.Fatal("Get() missed after Set()")
	}
	if result != "ASCII text" {
		t.Errorf("result = %q", result)
	}
}

func TestResultCacheKeyIncludesFlags(t *testing.T) {
	data := []byte("same bytes")
	if cacheKey(data, FlagNone) == cacheKey(data, FlagMimeType) {
		t.Error("same key for different flags")
	}
	if cacheKey(data, FlagNone) != cacheKey([]byte("same bytes"), FlagNone) {
		t.Error("different key for identical content and flags")
	}
}

func TestResultCacheTTL(t *testing.T) {
	cache := NewResultCache(10 * time.Millisecond)

	key := cacheKey([]byte("expiring"), FlagNone)
	cache.Set(key, "transient")
	if _, ok := cache.Get(key); !ok {
		t.Fatal("entry missing before expiry")
	}

	time.Sleep(20 * time.Millisecond)
	if _, ok := cache.Get(key); ok {
		t.Error("entry survived its TTL")
	}
}

func TestResultCacheInvalidate(t *testing.T) {
	cache := NewResultCache(0)
	cache.Set(cacheKey([]byte("a"), FlagNone), "first")
	cache.Set(cacheKey([]byte("b"), FlagNone), "second")

	cache.Invalidate()
	if stats := cache.Stats(); stats.Size != 0 {
		t.Errorf("Size = %d after Invalidate(), want 0", stats.Size)
	}
}

func TestResultCacheStats(t *testing.T) {
	cache := NewResultCache(0)
	key := cacheKey([]byte("tracked"), FlagNone)

	cache.Get(key) // miss
	cache.Set(key, "value")
	cache.Get(key) // hit
	cache.Get(key) // hit

	stats := cache.Stats()
	if stats.Hits != 2 || stats.Misses != 1 {
		t.Errorf("hits/misses = %d/%d, want 2/1", stats.Hits, stats.Misses)
	}
	if stats.Size != 1 {
		t.Errorf("Size = %d, want 1", stats.Size)
	}
	if want := float64(2) / 3; stats.HitRate != want {
		t.Errorf("HitRate = %v, want %v", stats.HitRate, want)
	}
}
