package cache

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/pagecursor/resource"
)

// LRUBlockCache keeps up to capacity bytes of blocks and evicts the least
// recently used block first. Every cached byte is charged to the resource
// controller, so a full global budget turns Set into a no-op.
type LRUBlockCache struct {
	mu       sync.Mutex
	capacity int64
	used     int64
	index    map[CacheKey]*list.Element
	order    *list.List // front is most recent
	rc       *resource.Controller

	hits   atomic.Int64
	misses atomic.Int64
}

type block struct {
	key  CacheKey
	data []byte
}

// NewLRUBlockCache creates a cache holding at most capacity bytes. rc may be nil.
func NewLRUBlockCache(capacity int64, rc *resource.Controller) *LRUBlockCache {
	return &LRUBlockCache{
		capacity: capacity,
		index:    make(map[CacheKey]*list.Element),
		order:    list.New(),
		rc:       rc,
	}
}

// Get implements BlockCache.
func (c *LRUBlockCache) Get(_ context.Context, key CacheKey) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.index[key]
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	c.order.MoveToFront(e)
	return e.Value.(*block).data, true
}

// Set implements BlockCache. Blocks larger than the whole cache are dropped.
func (c *LRUBlockCache) Set(_ context.Context, key CacheKey, b []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.index[key]; ok {
		c.replace(e, b)
		return
	}

	n := int64(len(b))
	if n > c.capacity {
		return
	}
	c.shrinkTo(c.capacity - n)
	if c.rc.AcquireMemory(n) != nil {
		return
	}
	c.index[key] = c.order.PushFront(&block{key: key, data: b})
	c.used += n
}

func (c *LRUBlockCache) replace(e *list.Element, b []byte) {
	blk := e.Value.(*block)
	delta := int64(len(b)) - int64(len(blk.data))

	c.order.MoveToFront(e)
	if delta > 0 && c.rc.AcquireMemory(delta) != nil {
		return
	}
	if delta < 0 {
		c.rc.ReleaseMemory(-delta)
	}
	blk.data = b
	c.used += delta
	c.shrinkTo(c.capacity)
}

// shrinkTo evicts from the back until at most limit bytes are used.
func (c *LRUBlockCache) shrinkTo(limit int64) {
	for c.used > limit {
		e := c.order.Back()
		if e == nil {
			return
		}
		c.remove(e)
	}
}

func (c *LRUBlockCache) remove(e *list.Element) {
	blk := c.order.Remove(e).(*block)
	delete(c.index, blk.key)
	n := int64(len(blk.data))
	c.used -= n
	c.rc.ReleaseMemory(n)
}

// Invalidate implements BlockCache.
func (c *LRUBlockCache) Invalidate(match func(key CacheKey) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for e := c.order.Front(); e != nil; {
		next := e.Next()
		if match(e.Value.(*block).key) {
			c.remove(e)
		}
		e = next
	}
}

// Close drops every block and returns its memory to the controller.
func (c *LRUBlockCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shrinkTo(0)
	return nil
}

// Stats implements BlockCache.
func (c *LRUBlockCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Size returns the cached bytes.
func (c *LRUBlockCache) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.used
}

// Len returns the number of cached blocks.
func (c *LRUBlockCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.index)
}
