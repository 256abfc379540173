package arrowsource_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/hupe1980/pagecursor"
	"github.com/hupe1980/pagecursor/blobstore"
	"github.com/hupe1980/pagecursor/internal/cache"
	"github.com/hupe1980/pagecursor/rowsource"
	"github.com/hupe1980/pagecursor/rowsource/arrowsource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowGroupSource_TypesAndValues(t *testing.T) {
	src, err := arrowsource.NewRowGroupSource(context.Background(), bytes.NewReader(writeParquet(t, 30, 8)), nil)
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, 30, src.RowCount())
	assert.Equal(t, 4, src.RowGroups())
	assert.Equal(t, []string{"_id", "title", "rating", "thumbnail"}, src.ColumnNames())
	assert.Zero(t, src.GroupLoads())

	require.True(t, src.MoveToPosition(27))
	assert.Equal(t, rowsource.TypeInteger, src.Type(0))
	assert.Equal(t, rowsource.TypeString, src.Type(1))
	assert.Equal(t, rowsource.TypeFloat, src.Type(2))
	assert.Equal(t, rowsource.TypeBlob, src.Type(3))

	assert.Equal(t, int64(28), src.GetInt(0))
	assert.Equal(t, "Episode b", src.GetString(1))
	assert.InDelta(t, 2.7, src.GetFloat(2), 1e-9)
	assert.Equal(t, []byte{27, 0}, src.GetBlob(3))
	assert.Equal(t, 1, src.GroupLoads())

	assert.False(t, src.MoveToPosition(30))
	require.NoError(t, src.Err())
	assert.Equal(t, rowsource.TypeNull, src.Type(0))
}

func TestRowGroupSource_DecodesOnGroupChange(t *testing.T) {
	src, err := arrowsource.NewRowGroupSource(context.Background(), bytes.NewReader(writeParquet(t, 30, 8)), nil)
	require.NoError(t, err)
	defer src.Close()

	require.True(t, src.MoveToPosition(3))
	require.True(t, src.MoveToPosition(7))
	assert.Equal(t, 1, src.GroupLoads())

	// Stepping across the boundary decodes the next group.
	require.True(t, src.MoveToNext())
	assert.Equal(t, int64(9), src.GetInt(0))
	assert.Equal(t, 2, src.GroupLoads())

	// Returning to an earlier group decodes it again.
	require.True(t, src.MoveToPosition(0))
	assert.Equal(t, int64(1), src.GetInt(0))
	assert.Equal(t, 3, src.GroupLoads())

	var ids []int64
	for src.MoveToNext() {
		ids = append(ids, src.GetInt(0))
	}
	require.NoError(t, src.Err())
	require.Len(t, ids, 29)
	assert.Equal(t, int64(30), ids[28])
}

func TestRowGroupSource_BlockCacheServesRevisitedGroups(t *testing.T) {
	ctx := context.Background()
	inner := blobstore.NewMemoryStore()
	require.NoError(t, inner.Put(ctx, "videos.parquet", writeParquet(t, 40, 10)))

	c := cache.NewLRUBlockCache(1<<20, nil)
	defer c.Close()
	store := blobstore.NewCachingStore(inner, c, 512, nil)

	src, err := arrowsource.OpenRowGroups(ctx, store, "videos.parquet", nil)
	require.NoError(t, err)
	defer src.Close()

	require.True(t, src.MoveToPosition(0))
	require.True(t, src.MoveToPosition(39))
	hits, _ := c.Stats()

	require.True(t, src.MoveToPosition(0))
	assert.Equal(t, int64(1), src.GetInt(0))
	assert.Equal(t, 3, src.GroupLoads())

	after, _ := c.Stats()
	assert.Greater(t, after, hits)
}

func TestRowGroupSource_Close(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, "videos.parquet", writeParquet(t, 12, 5)))

	src, err := arrowsource.OpenRowGroups(ctx, store, "videos.parquet", nil)
	require.NoError(t, err)
	require.True(t, src.MoveToPosition(6))

	require.NoError(t, src.Close())
	require.NoError(t, src.Close())

	assert.False(t, src.MoveToPosition(0))
	require.ErrorIs(t, src.Err(), arrowsource.ErrClosed)
	assert.Zero(t, src.GetInt(0))

	_, err = arrowsource.OpenRowGroups(ctx, store, "missing.parquet", nil)
	require.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestCursorOverRowGroups(t *testing.T) {
	src, err := arrowsource.NewRowGroupSource(context.Background(), bytes.NewReader(writeParquet(t, 25, 7)), nil)
	require.NoError(t, err)
	defer src.Close()

	cur, err := pagecursor.New(src, pagecursor.WithPageSize(6), pagecursor.WithReloadPolicy(pagecursor.PrefetchReload{}))
	require.NoError(t, err)
	defer cur.Close()

	var ids []int64
	for cur.MoveToNext() {
		id, err := cur.GetLong(0)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	require.Len(t, ids, 25)
	assert.Equal(t, int64(25), ids[24])
	// A sequential walk decodes each of the four row groups once.
	assert.Equal(t, 4, src.GroupLoads())
	assert.Equal(t, 5, cur.Stats().PageLoads)
}
