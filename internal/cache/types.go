package cache

import "context"

// CacheKey identifies one block of one blob.
type CacheKey struct {
	// Path identifies the blob (e.g. object name).
	Path string
	// Block is the block index inside the blob.
	Block int64
}

// BlockCache is a byte-oriented cache for immutable blocks.
// Returned slices must be treated as read-only.
type BlockCache interface {
	// Get returns a cached block. ok=false if missing.
	Get(ctx context.Context, key CacheKey) (b []byte, ok bool)
	// Set caches a block. Implementations may retain b; caller must treat b as immutable.
	Set(ctx context.Context, key CacheKey, b []byte)
	// Invalidate removes entries matching the predicate.
	Invalidate(predicate func(key CacheKey) bool)
	// Close releases any resources held by the cache.
	Close() error
	// Stats returns cache statistics.
	Stats() (hits, misses int64)
}
