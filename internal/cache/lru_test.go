package cache

import (
	"context"
	"testing"

	"github.com/hupe1980/pagecursor/resource"
	"github.com/stretchr/testify/assert"
)

func TestLRU_EdgeCases(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 100})
	c := NewLRUBlockCache(50, rc) // Cache cap 50
	ctx := context.Background()
	k := CacheKey{Path: "a.parquet", Block: 1}

	// 1. Item larger than capacity
	c.Set(ctx, k, make([]byte, 60))
	_, ok := c.Get(ctx, k)
	assert.False(t, ok, "Item > capacity should not be cached")

	// 2. Update existing item
	c.Set(ctx, k, make([]byte, 10))
	assert.Equal(t, int64(10), c.Size())
	assert.Equal(t, int64(10), rc.MemoryUsage())

	c.Set(ctx, k, make([]byte, 20))
	assert.Equal(t, int64(20), c.Size())
	assert.Equal(t, int64(20), rc.MemoryUsage())

	c.Set(ctx, k, make([]byte, 5))
	assert.Equal(t, int64(5), c.Size())
	assert.Equal(t, int64(5), rc.MemoryUsage())

	// 3. Update fails due to controller limit
	rc2 := resource.NewController(resource.Config{MemoryLimitBytes: 10})
	c2 := NewLRUBlockCache(50, rc2)
	c2.Set(ctx, k, make([]byte, 8))

	// +4 bytes would exceed the limit of 10.
	c2.Set(ctx, k, make([]byte, 12))

	val, ok := c2.Get(ctx, k)
	assert.True(t, ok)
	assert.Len(t, val, 8, "Update should have been rejected by the controller")
}

func TestLRU_Eviction(t *testing.T) {
	c := NewLRUBlockCache(30, nil)
	ctx := context.Background()

	for i := range 3 {
		c.Set(ctx, CacheKey{Path: "f", Block: int64(i)}, make([]byte, 10))
	}
	// Touch block 0 so block 1 is the least recently used.
	_, ok := c.Get(ctx, CacheKey{Path: "f", Block: 0})
	assert.True(t, ok)

	c.Set(ctx, CacheKey{Path: "f", Block: 3}, make([]byte, 10))

	_, ok = c.Get(ctx, CacheKey{Path: "f", Block: 1})
	assert.False(t, ok)
	_, ok = c.Get(ctx, CacheKey{Path: "f", Block: 0})
	assert.True(t, ok)
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, int64(30), c.Size())
}

func TestLRU_Stats(t *testing.T) {
	c := NewLRUBlockCache(100, nil)
	ctx := context.Background()
	k := CacheKey{Path: "x", Block: 1}
	c.Set(ctx, k, []byte{1})
	c.Get(ctx, k)                             // Hit
	c.Get(ctx, CacheKey{Path: "y", Block: 2}) // Miss

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestLRU_Invalidate(t *testing.T) {
	c := NewLRUBlockCache(100, nil)
	ctx := context.Background()
	c.Set(ctx, CacheKey{Path: "one", Block: 1}, []byte("a"))
	c.Set(ctx, CacheKey{Path: "one", Block: 2}, []byte("b"))
	c.Set(ctx, CacheKey{Path: "two", Block: 1}, []byte("c"))

	c.Invalidate(func(k CacheKey) bool {
		return k.Path == "one"
	})

	_, ok := c.Get(ctx, CacheKey{Path: "one", Block: 1})
	assert.False(t, ok)
	_, ok = c.Get(ctx, CacheKey{Path: "two", Block: 1})
	assert.True(t, ok)
}

func TestLRU_CloseReleasesMemory(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 100})
	c := NewLRUBlockCache(100, rc)
	ctx := context.Background()

	c.Set(ctx, CacheKey{Path: "p", Block: 0}, make([]byte, 40))
	c.Set(ctx, CacheKey{Path: "p", Block: 1}, make([]byte, 40))
	assert.Equal(t, int64(80), rc.MemoryUsage())

	assert.NoError(t, c.Close())
	assert.Zero(t, rc.MemoryUsage())
	assert.Zero(t, c.Len())
}
