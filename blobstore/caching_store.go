package blobstore

import (
	"context"
	"errors"
	"io"

	"github.com/hupe1980/pagecursor/internal/cache"
	"github.com/hupe1980/pagecursor/resource"
	"golang.org/x/sync/errgroup"
)

// DefaultBlockSize is the cache block size used when none is given.
const DefaultBlockSize = 64 * 1024

// maxConcurrentFetches bounds parallel backend reads per ReadAt.
const maxConcurrentFetches = 16

// CachingStore wraps a BlobStore with a block cache for reads. Backend
// reads are throttled by the optional resource controller.
type CachingStore struct {
	inner     BlobStore
	cache     cache.BlockCache
	rc        *resource.Controller
	blockSize int64
}

// NewCachingStore creates a CachingStore. blockSize defaults to
// DefaultBlockSize if <= 0; rc may be nil.
func NewCachingStore(inner BlobStore, c cache.BlockCache, blockSize int64, rc *resource.Controller) *CachingStore {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	return &CachingStore{
		inner:     inner,
		cache:     c,
		rc:        rc,
		blockSize: blockSize,
	}
}

// Open implements BlobStore.
func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &CachingBlob{
		inner:     b,
		cache:     s.cache,
		rc:        s.rc,
		name:      name,
		blockSize: s.blockSize,
	}, nil
}

// Put implements BlobStore. Cached blocks of name are dropped first.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.invalidate(name)
	return s.inner.Put(ctx, name, data)
}

// Delete implements BlobStore.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.invalidate(name)
	return s.inner.Delete(ctx, name)
}

// List implements BlobStore.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

func (s *CachingStore) invalidate(name string) {
	s.cache.Invalidate(func(key cache.CacheKey) bool {
		return key.Path == name
	})
}

// CachingBlob reads through the block cache.
type CachingBlob struct {
	inner     Blob
	cache     cache.BlockCache
	rc        *resource.Controller
	name      string
	blockSize int64
}

// Close closes the underlying blob. Cached blocks stay in the cache.
func (b *CachingBlob) Close() error { return b.inner.Close() }

// Size returns the size of the underlying blob.
func (b *CachingBlob) Size() int64 { return b.inner.Size() }

// ReadAt implements Blob. Missing blocks are fetched in contiguous runs.
func (b *CachingBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, ErrInvalidOffset
	}
	if len(p) == 0 {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	size := b.Size()
	if off >= size {
		return 0, io.EOF
	}
	want := min(int64(len(p)), size-off)

	first := off / b.blockSize
	last := (off + want - 1) / b.blockSize

	if err := b.fillCache(ctx, first, last); err != nil {
		return 0, err
	}

	total := 0
	for blk := first; blk <= last; blk++ {
		data, err := b.block(ctx, blk)
		if err != nil {
			return total, err
		}

		blkStart := blk * b.blockSize
		from := max(blkStart, off)
		to := min(blkStart+int64(len(data)), off+want)
		if to <= from {
			break
		}
		total += copy(p[from-off:to-off], data[from-blkStart:to-blkStart])
	}

	if total < len(p) {
		return total, io.EOF
	}
	return total, nil
}

type blockRun struct {
	start, count int64
}

// fillCache loads the missing blocks in [first, last], one backend read per
// contiguous run.
func (b *CachingBlob) fillCache(ctx context.Context, first, last int64) error {
	var runs []blockRun
	for blk := first; blk <= last; blk++ {
		if _, ok := b.cache.Get(ctx, b.key(blk)); ok {
			continue
		}
		if n := len(runs); n > 0 && runs[n-1].start+runs[n-1].count == blk {
			runs[n-1].count++
			continue
		}
		runs = append(runs, blockRun{start: blk, count: 1})
	}
	if len(runs) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)

	for _, run := range runs {
		g.Go(func() error {
			start := run.start * b.blockSize
			n := min(run.count*b.blockSize, b.Size()-start)
			if n <= 0 {
				return nil
			}

			buf, err := b.fetch(gctx, start, n)
			if err != nil {
				return err
			}

			for i := range run.count {
				lo := i * b.blockSize
				if lo >= int64(len(buf)) {
					break
				}
				hi := min(lo+b.blockSize, int64(len(buf)))
				// Copy so a cached block does not pin the whole run.
				blk := make([]byte, hi-lo)
				copy(blk, buf[lo:hi])
				b.cache.Set(gctx, b.key(run.start+i), blk)
			}
			return nil
		})
	}
	return g.Wait()
}

// block returns one block, reading it directly if it was evicted between
// fillCache and use.
func (b *CachingBlob) block(ctx context.Context, blk int64) ([]byte, error) {
	key := b.key(blk)
	if data, ok := b.cache.Get(ctx, key); ok {
		return data, nil
	}

	start := blk * b.blockSize
	n := min(b.blockSize, b.Size()-start)
	if n <= 0 {
		return nil, nil
	}
	data, err := b.fetch(ctx, start, n)
	if err != nil {
		return nil, err
	}
	b.cache.Set(ctx, key, data)
	return data, nil
}

func (b *CachingBlob) fetch(ctx context.Context, off, n int64) ([]byte, error) {
	if err := b.rc.AcquireIO(ctx, int(n)); err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	read, err := b.inner.ReadAt(ctx, buf, off)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buf[:read], nil
}

func (b *CachingBlob) key(blk int64) cache.CacheKey {
	return cache.CacheKey{Path: b.name, Block: blk}
}
