package arrowsource_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/hupe1980/pagecursor"
	"github.com/hupe1980/pagecursor/blobstore"
	"github.com/hupe1980/pagecursor/internal/cache"
	"github.com/hupe1980/pagecursor/rowsource"
	"github.com/hupe1980/pagecursor/rowsource/arrowsource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var schema = arrow.NewSchema([]arrow.Field{
	{Name: "_id", Type: arrow.PrimitiveTypes.Int64},
	{Name: "title", Type: arrow.BinaryTypes.String},
	{Name: "rating", Type: arrow.PrimitiveTypes.Float64},
	{Name: "thumbnail", Type: arrow.BinaryTypes.Binary},
}, nil)

// writeParquet encodes n video rows, split into row groups of rowGroup rows.
func writeParquet(t *testing.T, n int, rowGroup int64) []byte {
	t.Helper()
	mem := memory.NewGoAllocator()

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()
	for i := range n {
		b.Field(0).(*array.Int64Builder).Append(int64(i + 1))
		b.Field(1).(*array.StringBuilder).Append("Episode " + string(rune('a'+i%26)))
		b.Field(2).(*array.Float64Builder).Append(float64(i%50) / 10)
		b.Field(3).(*array.BinaryBuilder).Append([]byte{byte(i), byte(i >> 8)})
	}
	rec := b.NewRecord()
	defer rec.Release()

	tbl := array.NewTableFromRecords(schema, []arrow.Record{rec})
	defer tbl.Release()

	var buf bytes.Buffer
	require.NoError(t, pqarrow.WriteTable(tbl, &buf, rowGroup, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps()))
	return buf.Bytes()
}

func TestOpenParquet(t *testing.T) {
	data := writeParquet(t, 30, 8)

	src, err := arrowsource.OpenParquet(context.Background(), bytes.NewReader(data), nil)
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, 30, src.RowCount())
	assert.Equal(t, []string{"_id", "title", "rating", "thumbnail"}, src.ColumnNames())

	require.True(t, src.MoveToPosition(27))
	assert.Equal(t, rowsource.TypeInteger, src.Type(0))
	assert.Equal(t, rowsource.TypeString, src.Type(1))
	assert.Equal(t, rowsource.TypeFloat, src.Type(2))
	assert.Equal(t, rowsource.TypeBlob, src.Type(3))

	assert.Equal(t, int64(28), src.GetInt(0))
	assert.Equal(t, "Episode b", src.GetString(1))
	assert.InDelta(t, 2.7, src.GetFloat(2), 1e-9)
	assert.Equal(t, []byte{27, 0}, src.GetBlob(3))
}

func TestOpenParquet_NotParquet(t *testing.T) {
	_, err := arrowsource.OpenParquet(context.Background(), bytes.NewReader([]byte("not a parquet file")), nil)
	require.Error(t, err)
}

func TestOpenParquetBlob(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, "exports/videos.parquet", writeParquet(t, 12, 5)))

	src, err := arrowsource.OpenParquetBlob(ctx, store, "exports/videos.parquet", nil)
	require.NoError(t, err)
	defer src.Close()
	assert.Equal(t, 12, src.RowCount())

	_, err = arrowsource.OpenParquetBlob(ctx, store, "missing.parquet", nil)
	require.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestOpenParquetBlob_ThroughBlockCache(t *testing.T) {
	ctx := context.Background()
	inner := blobstore.NewMemoryStore()
	require.NoError(t, inner.Put(ctx, "videos.parquet", writeParquet(t, 40, 10)))

	c := cache.NewLRUBlockCache(1<<20, nil)
	defer c.Close()
	store := blobstore.NewCachingStore(inner, c, 512, nil)

	src, err := arrowsource.OpenParquetBlob(ctx, store, "videos.parquet", nil)
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, 40, src.RowCount())
	assert.Positive(t, c.Len())
}

func TestCursorOverParquet(t *testing.T) {
	src, err := arrowsource.OpenParquet(context.Background(), bytes.NewReader(writeParquet(t, 25, 7)), nil)
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

		thumb, err := cur.GetBlob(3)
		require.NoError(t, err)
		assert.Equal(t, []byte{byte(id - 1), 0}, thumb)
	}

	require.Len(t, ids, 25)
	assert.Equal(t, int64(25), ids[24])
	// ceil(25/6) loads with the prefetch policy.
	assert.Equal(t, 5, cur.Stats().PageLoads)
	assert.Equal(t, uint64(25), cur.CachedRows().GetCardinality())
}
