package sqlsource

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hupe1980/pagecursor/rowsource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openVideos(t *testing.T, n int) *Source {
	t.Helper()
	ctx := context.Background()

	db, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "videos.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.ExecContext(ctx, `CREATE TABLE videos (
		_id INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		rating REAL,
		thumbnail BLOB,
		note TEXT
	)`)
	require.NoError(t, err)

	for i := range n {
		_, err = db.ExecContext(ctx,
			`INSERT INTO videos (_id, title, rating, thumbnail, note) VALUES (?, ?, ?, ?, NULL)`,
			i+1, "video-"+string(rune('a'+i%26)), float64(i)/2, []byte{byte(i), 0xAB})
		require.NoError(t, err)
	}

	src, err := New(ctx, db, `SELECT _id, title, rating, thumbnail, note FROM videos WHERE _id > ? ORDER BY _id`, 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = src.Close() })
	return src
}

func TestSource_Schema(t *testing.T) {
	src := openVideos(t, 12)

	assert.Equal(t, 12, src.RowCount())
	assert.Equal(t, 5, src.ColumnCount())
	assert.Equal(t, []string{"_id", "title", "rating", "thumbnail", "note"}, src.ColumnNames())

	require.True(t, src.MoveToPosition(0))
	assert.Equal(t, rowsource.TypeInteger, src.Type(0))
	assert.Equal(t, rowsource.TypeString, src.Type(1))
	assert.Equal(t, rowsource.TypeFloat, src.Type(2))
	assert.Equal(t, rowsource.TypeBlob, src.Type(3))
	assert.Equal(t, rowsource.TypeNull, src.Type(4))
}

func TestSource_ForwardAndBackward(t *testing.T) {
	src := openVideos(t, 12)

	require.True(t, src.MoveToPosition(3))
	assert.Equal(t, int64(4), src.GetInt(0))
	assert.InDelta(t, 1.5, src.GetFloat(2), 1e-9)
	assert.Equal(t, []byte{3, 0xAB}, src.GetBlob(3))
	assert.Equal(t, "video-d", src.GetString(1))

	require.True(t, src.MoveToNext())
	assert.Equal(t, int64(5), src.GetInt(0))
	assert.Equal(t, 1, src.Executions())

	// Backward move re-executes.
	require.True(t, src.MoveToPosition(1))
	assert.Equal(t, int64(2), src.GetInt(0))
	assert.Equal(t, 2, src.Executions())

	// Same row is a no-op.
	require.True(t, src.MoveToPosition(1))
	assert.Equal(t, 2, src.Executions())

	require.True(t, src.MoveToPosition(11))
	assert.Equal(t, int64(12), src.GetInt(0))
	assert.False(t, src.MoveToNext())
	assert.NoError(t, src.Err())
}

func TestSource_OutOfRange(t *testing.T) {
	src := openVideos(t, 2)

	assert.False(t, src.MoveToPosition(-1))
	assert.False(t, src.MoveToPosition(2))
	assert.NoError(t, src.Err())
}

func TestSource_Closed(t *testing.T) {
	src := openVideos(t, 2)

	require.NoError(t, src.Close())
	require.NoError(t, src.Close())
	assert.False(t, src.MoveToPosition(0))
	assert.ErrorIs(t, src.Err(), ErrClosed)
	assert.Zero(t, src.GetInt(0))
}

func TestNew_BadQuery(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	defer db.Close()

	_, err = New(ctx, db, "SELECT * FROM missing")
	require.Error(t, err)
}

func TestOpenSQLite_EmptyPath(t *testing.T) {
	_, err := OpenSQLite(context.Background(), "")
	require.Error(t, err)
}

// openOverflowing returns a 12-row source whose row 8 fails while stepping:
// abs() of the minimum int64 raises "integer overflow" in SQLite.
func openOverflowing(t *testing.T) *Source {
	t.Helper()
	ctx := context.Background()

	db, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "overflow.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.ExecContext(ctx, `CREATE TABLE nums (n INTEGER NOT NULL)`)
	require.NoError(t, err)
	for i := range 12 {
		_, err = db.ExecContext(ctx, `INSERT INTO nums (n) VALUES (?)`, i)
		require.NoError(t, err)
	}

	// No ORDER BY: sorting would evaluate every row on the first step.
	src, err := New(ctx, db, `SELECT n, abs(-9223372036854775807 - (n - 7)) AS big FROM nums`)
	require.NoError(t, err)
	t.Cleanup(func() { _ = src.Close() })
	return src
}

func TestSource_StepFailureForgetsPosition(t *testing.T) {
	src := openOverflowing(t)

	require.True(t, src.MoveToPosition(2))
	assert.Equal(t, int64(2), src.GetInt(0))

	// Steps past row 7 without scanning it, then fails on row 8.
	require.False(t, src.MoveToPosition(8))
	require.Error(t, src.Err())
	assert.Zero(t, src.GetInt(0))

	executions := src.Executions()
	require.True(t, src.MoveToPosition(7))
	assert.NoError(t, src.Err())
	assert.Equal(t, int64(7), src.GetInt(0))
	assert.Equal(t, executions+1, src.Executions(), "row 7 must come from a fresh result set")

	assert.False(t, src.MoveToNext())
	require.Error(t, src.Err())
}
