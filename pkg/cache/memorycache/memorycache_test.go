package memorycache

import (
	"context"
	"sync"
	"testing"
	"time"
)

func newTestCache(maxSize int64) *Cache[string] {
	return New(&Config[string]{
		MaxSizeBytes:  maxSize,
		DefaultTTL:    time.Minute,
		EnableMetrics: true,
		SizeOf:        func(v string) int64 { return int64(len(v)) },
	})
}

func TestCache_SetAndGet(t *testing.T) {
	cache := newTestCache(1024 * 1024)
	ctx := context.Background()

	if err := cache.Set(ctx, "key1", "value1", time.Minute); err != nil {
		t.Fatalf("failed to set value: %v", err)
	}

	value, found := cache.Get(ctx, "key1")
	if !found || value != "value1" {
		t.Errorf("expected value1, got %q (found=%v)", value, found)
	}

	if _, found := cache.Get(ctx, "nonexistent"); found {
		t.Error("expected not to find nonexistent key")
	}
}

func TestCache_TTLExpiration(t *testing.T) {
	cache := newTestCache(1024 * 1024)
	ctx := context.Background()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	cache.Set(ctx, "short", "v", time.Second)
	cache.Set(ctx, "default", "v", 0)

	now = now.Add(2 * time.Second)
	if _, found := cache.Get(ctx, "short"); found {
		t.Error("expected short-lived key to expire")
	}
	if _, found := cache.Get(ctx, "default"); !found {
		t.Error("expected key with default TTL to survive")
	}

	now = now.Add(time.Minute)
	if _, found := cache.Get(ctx, "default"); found {
		t.Error("expected key with default TTL to expire")
	}
	if cache.Len() != 0 {
		t.Errorf("expected expired entries to be removed, got %d", cache.Len())
	}
}

func TestCache_LRUEviction(t *testing.T) {
	// Room for two entries of 100 + 1 + 5 bytes
	cache := newTestCache(220)
	ctx := context.Background()

	cache.Set(ctx, "a", "aaaaa", 0)
	cache.Set(ctx, "b", "bbbbb", 0)

	// Touch a so that b becomes least recently used
	cache.Get(ctx, "a")
	cache.Set(ctx, "c", "ccccc", 0)

	if _, found := cache.Get(ctx, "b"); found {
		t.Error("expected b to be evicted")
	}
	for _, key := range []string{"a", "c"} {
		if _, found := cache.Get(ctx, key); !found {
			t.Errorf("expected %s to be present", key)
		}
	}
	if got := cache.Metrics().KeysEvicted; got != 1 {
		t.Errorf("expected 1 eviction, got %d", got)
	}
}

func TestCache_SizeAccounting(t *testing.T) {
	cache := newTestCache(1024 * 1024)
	ctx := context.Background()

	cache.Set(ctx, "key", "12345", 0)
	if got := cache.Size(); got != entryOverhead+3+5 {
		t.Errorf("unexpected size %d", got)
	}

	cache.Set(ctx, "key", "1", 0)
	if got := cache.Size(); got != entryOverhead+3+1 {
		t.Errorf("unexpected size after update %d", got)
	}
	if cache.Len() != 1 {
		t.Errorf("expected 1 item, got %d", cache.Len())
	}
}

func TestCache_DeleteAndPrefix(t *testing.T) {
	cache := newTestCache(1024 * 1024)
	ctx := context.Background()

	cache.Set(ctx, "schema:a:1", "x", 0)
	cache.Set(ctx, "schema:a:2", "x", 0)
	cache.Set(ctx, "schema:b:1", "x", 0)

	if err := cache.Delete(ctx, "schema:b:1"); err != nil {
		t.Fatalf("failed to delete: %v", err)
	}
	if err := cache.Delete(ctx, "nonexistent"); err != nil {
		t.Fatalf("delete of non-existent key should not error: %v", err)
	}

	if removed := cache.DeletePrefix(ctx, "schema:a:"); removed != 2 {
		t.Errorf("expected 2 removed, got %d", removed)
	}
	if cache.Len() != 0 || cache.Size() != 0 {
		t.Errorf("expected empty cache, got %d items / %d bytes", cache.Len(), cache.Size())
	}
}

func TestCache_Clear(t *testing.T) {
	cache := newTestCache(1024 * 1024)
	ctx := context.Background()

	cache.Set(ctx, "key1", "value1", 0)
	cache.Set(ctx, "key2", "value2", 0)

	if err := cache.Clear(ctx); err != nil {
		t.Fatalf("failed to clear: %v", err)
	}
	if cache.Len() != 0 {
		t.Errorf("expected 0 items after clear, got %d", cache.Len())
	}
}

func TestCache_Metrics(t *testing.T) {
	cache := newTestCache(1024 * 1024)
	ctx := context.Background()

	cache.Set(ctx, "key1", "value1", 0)
	cache.Get(ctx, "key1")
	cache.Get(ctx, "nonexistent")

	m := cache.Metrics()
	if m.Hits != 1 || m.Misses != 1 || m.KeysAdded != 1 || m.KeysCurrent != 1 {
		t.Errorf("unexpected metrics: %+v", m)
	}
	if m.HitRate() != 0.5 {
		t.Errorf("expected hit rate 0.5, got %f", m.HitRate())
	}

	disabled := New(&Config[int]{MaxSizeBytes: 1024})
	disabled.Set(ctx, "k", 1, time.Minute)
	disabled.Get(ctx, "k")
	if m := disabled.Metrics(); m.Hits != 0 || m.KeysCurrent != 1 {
		t.Errorf("unexpected metrics with collection disabled: %+v", m)
	}
}

func TestCache_ConcurrentAccess(t *testing.T) {
	cache := newTestCache(1024 * 1024)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		key := string(rune('a' + i))
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				cache.Set(ctx, key, "v", 0)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				cache.Get(ctx, key)
			}
		}()
	}
	wg.Wait()

	if cache.Len() != 10 {
		t.Errorf("expected 10 keys, got %d", cache.Len())
	}
}
