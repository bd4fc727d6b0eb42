package hformat

import (
	"testing"
	"time"
)

func TestTemplateCacheSetGet(t *testing.T) {
	cache := NewTemplateCacheWithConfig(CacheConfig{MaxSize: 10})

	tmpl := &PreparedTemplate{source: "{x}"}
	cache.Set("{x}", tmpl)

	got, ok := cache.Get("{x}")
	if !ok {
		t.Fatal("Get returned not found for a cached template")
	}
	if got != tmpl {
		t.Error("Get returned a different template than was cached")
	}

	if _, ok := cache.Get("{y}"); ok {
		t.Error("Get returned a template for an unknown key")
	}
}

func TestTemplateCacheLRUEviction(t *testing.T) {
	cache := NewTemplateCacheWithConfig(CacheConfig{MaxSize: 2})

	cache.Set("a", &PreparedTemplate{source: "a"})
	cache.Set("b", &PreparedTemplate{source: "b"})

	// Touch "a" so "b" becomes the eviction candidate.
	cache.Get("a")
	cache.Set("c", &PreparedTemplate{source: "c"})

	if _, ok := cache.Get("b"); ok {
		t.Error("least recently used entry was not evicted")
	}
	if _, ok := cache.Get("a"); !ok {
		t.Error("recently used entry was evicted")
	}
	if _, ok := cache.Get("c"); !ok {
		t.Error("new entry missing after insert")
	}
	if cache.Size() != 2 {
		t.Errorf("Size() = %d, want 2", cache.Size())
	}
}

func TestTemplateCacheTTL(t *testing.T) {
	cache := NewTemplateCacheWithConfig(CacheConfig{MaxSize: 10, TTL: 10 * time.Millisecond})

	cache.Set("a", &PreparedTemplate{source: "a"})
	if _, ok := cache.Get("a"); !ok {
		t.Fatal("entry missing before TTL expiry")
	}

	time.Sleep(20 * time.Millisecond)
	if _, ok := cache.Get("a"); ok {
		t.Error("entry still present after TTL expiry")
	}
	if cache.Size() != 0 {
		t.Errorf("Size() = %d, want 0 after expiry", cache.Size())
	}
}

func TestTemplateCacheDisabled(t *testing.T) {
	cache := NewTemplateCacheWithConfig(CacheConfig{MaxSize: 0})

	cache.Set("a", &PreparedTemplate{source: "a"})
	if _, ok := cache.Get("a"); ok {
		t.Error("disabled cache stored an entry")
	}
	if cache.Size() != 0 {
		t.Errorf("Size() = %d, want 0", cache.Size())
	}
}

func TestTemplateCacheClear(t *testing.T) {
	cache := NewTemplateCacheWithConfig(CacheConfig{MaxSize: 10})

	cache.Set("a", &PreparedTemplate{source: "a"})
	cache.Set("b", &PreparedTemplate{source: "b"})
	cache.Clear()

	if cache.Size() != 0 {
		t.Errorf("Size() = %d, want 0 after Clear", cache.Size())
	}
	if _, ok := cache.Get("a"); ok {
		t.Error("entry survived Clear")
	}
}

func TestPrepareUsesCache(t *testing.T) {
	engine := NewWithConfig(&Config{CacheMaxSize: 10, LogLevel: "info"})

	first, err := engine.Prepare("{x: width(4)}")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	second, err := engine.Prepare("{x: width(4)}")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if first != second {
		t.Error("Prepare did not reuse the cached template")
	}
}
