package colstore

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/bits-and-blooms/bitset"
	"github.com/hupe1980/pagecursor/internal/conv"
	"github.com/hupe1980/pagecursor/internal/schema"
	"github.com/hupe1980/pagecursor/resource"
)

var (
	// ErrReleased is returned when a released store is used.
	ErrReleased = errors.New("store released")
	// ErrRowOutOfRange is returned for a row outside [0, RowCount).
	ErrRowOutOfRange = errors.New("row out of range")
)

const (
	sizeInt64  = int64(unsafe.Sizeof(int64(0)))
	sizeString = int64(unsafe.Sizeof(""))
	sizeSlice  = int64(unsafe.Sizeof([]byte(nil)))
)

// Store holds materialized row values for one schema.
type Store struct {
	schema *schema.Schema
	rows   int
	widths [schema.NumFamilies]int

	blobs   [][]byte
	floats  []float64
	ints    []int64
	strings []string

	cached *bitset.BitSet

	rc            *resource.Controller
	fixedBytes    int64
	variableBytes int64
	released      bool
}

// New allocates the partition slices and the cached-row flags for s.
// The fixed size of every slice is charged to rc up front.
func New(s *schema.Schema, rc *resource.Controller) (*Store, error) {
	rows := s.RowCount()
	w := s.Widths()

	fixed := FixedBytes(rows, w)
	if err := rc.AcquireMemory(fixed); err != nil {
		return nil, fmt.Errorf("allocate store for %d rows (%d bytes): %w", rows, fixed, err)
	}

	st := &Store{
		schema:     s,
		rows:       rows,
		widths:     w,
		cached:     bitset.New(uint(rows)),
		rc:         rc,
		fixedBytes: fixed,
	}

	if n := w[schema.FamilyBlob]; n > 0 {
		st.blobs = make([][]byte, rows*n)
	}
	if n := w[schema.FamilyFloat]; n > 0 {
		st.floats = make([]float64, rows*n)
	}
	if n := w[schema.FamilyInteger]; n > 0 {
		st.ints = make([]int64, rows*n)
	}
	if n := w[schema.FamilyString]; n > 0 {
		st.strings = make([]string, rows*n)
	}

	return st, nil
}

// FixedBytes returns the bytes New charges for rows rows with the given widths.
func FixedBytes(rows int, widths [schema.NumFamilies]int) int64 {
	r := int64(rows)
	total := (r + 63) / 64 * 8 // flags
	total += r * int64(widths[schema.FamilyBlob]) * sizeSlice
	total += r * int64(widths[schema.FamilyFloat]) * sizeInt64
	total += r * int64(widths[schema.FamilyInteger]) * sizeInt64
	total += r * int64(widths[schema.FamilyString]) * sizeString
	return total
}

// Schema returns the schema the store was allocated for.
func (st *Store) Schema() *schema.Schema { return st.schema }

// RowCount returns the number of rows the store can hold.
func (st *Store) RowCount() int { return st.rows }

// NewRowBuffer returns a buffer sized for one row of this store.
func (st *Store) NewRowBuffer() *RowBuffer {
	return &RowBuffer{
		blobs:   make([][]byte, st.widths[schema.FamilyBlob]),
		floats:  make([]float64, st.widths[schema.FamilyFloat]),
		ints:    make([]int64, st.widths[schema.FamilyInteger]),
		strings: make([]string, st.widths[schema.FamilyString]),
	}
}

// Commit copies buf into row and marks the row cached.
//
// Committing an already cached row is a no-op that returns nil; stored values
// are write-once. If the variable bytes of the row cannot be charged the row
// stays uncached.
func (st *Store) Commit(row int, buf *RowBuffer) error {
	if err := st.check(row); err != nil {
		return err
	}
	if st.cached.Test(uint(row)) {
		return nil
	}

	variable := buf.variableBytes()
	if err := st.rc.AcquireMemory(variable); err != nil {
		return fmt.Errorf("commit row %d (%d bytes): %w", row, variable, err)
	}
	st.variableBytes += variable

	copy(st.blobs[row*st.widths[schema.FamilyBlob]:], buf.blobs)
	copy(st.floats[row*st.widths[schema.FamilyFloat]:], buf.floats)
	copy(st.ints[row*st.widths[schema.FamilyInteger]:], buf.ints)
	copy(st.strings[row*st.widths[schema.FamilyString]:], buf.strings)

	st.cached.Set(uint(row))
	return nil
}

// IsCached reports whether row has been committed. Out-of-range rows are never cached.
func (st *Store) IsCached(row int) bool {
	if st.released || row < 0 || row >= st.rows {
		return false
	}
	return st.cached.Test(uint(row))
}

// CachedCount returns the number of committed rows.
func (st *Store) CachedCount() int {
	return int(st.cached.Count())
}

// Snapshot returns the committed rows as a roaring bitmap.
func (st *Store) Snapshot() *roaring.Bitmap {
	bm := roaring.New()
	if st.released {
		return bm
	}
	for i, ok := st.cached.NextSet(0); ok; i, ok = st.cached.NextSet(i + 1) {
		id, err := conv.IntToUint32(int(i))
		if err != nil {
			break
		}
		bm.Add(id)
	}
	return bm
}

// Blob returns the stored blob at (row, slot) without copying. The row must
// be cached and the result must not be modified.
func (st *Store) Blob(row, slot int) []byte {
	b := st.blobs[row*st.widths[schema.FamilyBlob]+slot]
	return b[:len(b):len(b)]
}

// Float returns the float at (row, slot). The row must be cached.
func (st *Store) Float(row, slot int) float64 {
	return st.floats[row*st.widths[schema.FamilyFloat]+slot]
}

// Int returns the integer at (row, slot). The row must be cached.
func (st *Store) Int(row, slot int) int64 {
	return st.ints[row*st.widths[schema.FamilyInteger]+slot]
}

// String returns the string at (row, slot). The row must be cached.
func (st *Store) String(row, slot int) string {
	return st.strings[row*st.widths[schema.FamilyString]+slot]
}

// MemoryUsage returns the bytes currently charged by this store.
func (st *Store) MemoryUsage() int64 {
	return st.fixedBytes + st.variableBytes
}

// Release drops all values and returns the charged memory. It is idempotent.
func (st *Store) Release() {
	if st.released {
		return
	}
	st.released = true

	st.rc.ReleaseMemory(st.fixedBytes + st.variableBytes)
	st.fixedBytes, st.variableBytes = 0, 0

	st.blobs, st.floats, st.ints, st.strings = nil, nil, nil, nil
	st.cached = bitset.New(0)
}

func (st *Store) check(row int) error {
	if st.released {
		return ErrReleased
	}
	if row < 0 || row >= st.rows {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrRowOutOfRange, row, st.rows)
	}
	return nil
}
