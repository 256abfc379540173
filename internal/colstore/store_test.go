package colstore

import (
	"testing"

	"github.com/hupe1980/pagecursor/internal/schema"
	"github.com/hupe1980/pagecursor/resource"
	"github.com/hupe1980/pagecursor/rowsource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mixedSchema(t *testing.T, rows int) *schema.Schema {
	t.Helper()

	data := make([][]any, rows)
	for i := range data {
		data[i] = []any{int64(i), "title", 0.5, []byte{byte(i)}, nil}
	}
	src, err := rowsource.NewMemory([]string{"id", "title", "score", "thumb", "gone"}, data)
	require.NoError(t, err)

	s, err := schema.Inspect(src)
	require.NoError(t, err)
	return s
}

func TestStore_CommitAndRead(t *testing.T) {
	st, err := New(mixedSchema(t, 4), nil)
	require.NoError(t, err)

	buf := st.NewRowBuffer()
	buf.SetInt(0, 42)
	buf.SetString(0, "Sintel")
	buf.SetFloat(0, 7.25)
	buf.SetBlob(0, []byte{1, 2, 3})

	assert.False(t, st.IsCached(2))
	require.NoError(t, st.Commit(2, buf))
	assert.True(t, st.IsCached(2))
	assert.False(t, st.IsCached(1))

	assert.Equal(t, int64(42), st.Int(2, 0))
	assert.Equal(t, "Sintel", st.String(2, 0))
	assert.InDelta(t, 7.25, st.Float(2, 0), 0)
	assert.Equal(t, []byte{1, 2, 3}, st.Blob(2, 0))
	assert.Equal(t, 1, st.CachedCount())
}

func TestStore_CommitIsWriteOnce(t *testing.T) {
	st, err := New(mixedSchema(t, 2), nil)
	require.NoError(t, err)

	buf := st.NewRowBuffer()
	buf.SetInt(0, 1)
	require.NoError(t, st.Commit(0, buf))

	buf.SetInt(0, 99)
	require.NoError(t, st.Commit(0, buf))
	assert.Equal(t, int64(1), st.Int(0, 0))
}

func TestStore_BlobsAreCopied(t *testing.T) {
	st, err := New(mixedSchema(t, 1), nil)
	require.NoError(t, err)

	in := []byte{9, 9}
	buf := st.NewRowBuffer()
	buf.SetBlob(0, in)
	in[0] = 0
	require.NoError(t, st.Commit(0, buf))

	out := st.Blob(0, 0)
	assert.Equal(t, []byte{9, 9}, out)
	assert.Equal(t, 2, cap(out))
	assert.Zero(t, testing.AllocsPerRun(100, func() { _ = st.Blob(0, 0) }))
}

func TestStore_RowOutOfRange(t *testing.T) {
	st, err := New(mixedSchema(t, 2), nil)
	require.NoError(t, err)

	buf := st.NewRowBuffer()
	assert.ErrorIs(t, st.Commit(-1, buf), ErrRowOutOfRange)
	assert.ErrorIs(t, st.Commit(2, buf), ErrRowOutOfRange)
	assert.False(t, st.IsCached(-1))
	assert.False(t, st.IsCached(2))
}

func TestStore_Snapshot(t *testing.T) {
	st, err := New(mixedSchema(t, 10), nil)
	require.NoError(t, err)

	buf := st.NewRowBuffer()
	for _, r := range []int{1, 4, 5, 9} {
		require.NoError(t, st.Commit(r, buf))
	}

	bm := st.Snapshot()
	assert.Equal(t, []uint32{1, 4, 5, 9}, bm.ToArray())

	// Snapshot is detached from the store.
	bm.Add(2)
	assert.False(t, st.IsCached(2))
}

func TestStore_EmptyFamiliesAllocateNothing(t *testing.T) {
	src, err := rowsource.NewMemory([]string{"n"}, [][]any{{int64(1)}, {int64(2)}})
	require.NoError(t, err)
	s, err := schema.Inspect(src)
	require.NoError(t, err)

	st, err := New(s, nil)
	require.NoError(t, err)

	assert.Nil(t, st.blobs)
	assert.Nil(t, st.floats)
	assert.Nil(t, st.strings)
	assert.Len(t, st.ints, 2)

	buf := st.NewRowBuffer()
	buf.SetInt(0, 5)
	require.NoError(t, st.Commit(1, buf))
	assert.Equal(t, int64(5), st.Int(1, 0))
}

func TestStore_MemoryAccounting(t *testing.T) {
	s := mixedSchema(t, 8)
	fixed := FixedBytes(8, s.Widths())

	rc := resource.NewController(resource.Config{MemoryLimitBytes: fixed + 10})
	st, err := New(s, rc)
	require.NoError(t, err)
	assert.Equal(t, fixed, rc.MemoryUsage())

	buf := st.NewRowBuffer()
	buf.SetString(0, "abcd")
	buf.SetBlob(0, []byte{1, 2})
	require.NoError(t, st.Commit(0, buf))
	assert.Equal(t, fixed+6, rc.MemoryUsage())
	assert.Equal(t, fixed+6, st.MemoryUsage())

	// 6 more bytes would exceed the budget; the row stays uncached.
	err = st.Commit(1, buf)
	require.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)
	assert.False(t, st.IsCached(1))
	assert.Equal(t, fixed+6, rc.MemoryUsage())

	st.Release()
	assert.Zero(t, rc.MemoryUsage())
	st.Release()
	assert.Zero(t, rc.MemoryUsage())

	assert.ErrorIs(t, st.Commit(2, buf), ErrReleased)
	assert.False(t, st.IsCached(0))
	assert.True(t, st.Snapshot().IsEmpty())
}

func TestStore_AllocationOverBudget(t *testing.T) {
	s := mixedSchema(t, 100)
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 16})

	_, err := New(s, rc)
	require.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)
	assert.Zero(t, rc.MemoryUsage())
}

func TestRowBuffer_Reset(t *testing.T) {
	st, err := New(mixedSchema(t, 1), nil)
	require.NoError(t, err)

	buf := st.NewRowBuffer()
	buf.SetInt(0, 3)
	buf.SetString(0, "x")
	buf.SetBlob(0, []byte{1})
	buf.Reset()
	require.NoError(t, st.Commit(0, buf))

	assert.Zero(t, st.Int(0, 0))
	assert.Empty(t, st.String(0, 0))
	assert.Nil(t, st.Blob(0, 0))
	assert.Zero(t, st.MemoryUsage()-FixedBytes(1, st.Schema().Widths()))
}
