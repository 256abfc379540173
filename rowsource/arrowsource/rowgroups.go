package arrowsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/hupe1980/pagecursor/blobstore"
	"github.com/hupe1980/pagecursor/rowsource"
)

// ErrClosed is returned when a closed RowGroupSource is positioned.
var ErrClosed = errors.New("parquet source closed")

// RowGroupSource reads a Parquet file one row group at a time. Only the row
// group holding the current row is decoded and kept in memory, so column
// chunks are fetched from the underlying reader as the position moves.
type RowGroupSource struct {
	ctx    context.Context
	pf     *file.Reader
	fr     *pqarrow.FileReader
	blob   io.Closer
	leaves []int
	names  []string
	starts []int // first row of each row group
	rows   int

	group   int // decoded row group, -1 when none
	current *Source
	pos     int
	loads   int
	err     error
	closed  bool
}

var _ rowsource.Source = (*RowGroupSource)(nil)

// NewRowGroupSource reads the footer of the Parquet file behind r. Row
// groups are decoded on demand with ctx. If mem is nil, the Go allocator is
// used. r must stay readable until Close.
func NewRowGroupSource(ctx context.Context, r parquet.ReaderAtSeeker, mem memory.Allocator) (*RowGroupSource, error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	pf, err := file.NewParquetReader(r, file.WithReadProps(parquet.NewReaderProperties(mem)))
	if err != nil {
		return nil, fmt.Errorf("create parquet reader: %w", err)
	}

	fr, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		_ = pf.Close()
		return nil, fmt.Errorf("create arrow reader: %w", err)
	}

	sc, err := fr.Schema()
	if err != nil {
		_ = pf.Close()
		return nil, fmt.Errorf("read arrow schema: %w", err)
	}

	s := &RowGroupSource{
		ctx:    ctx,
		pf:     pf,
		fr:     fr,
		leaves: make([]int, pf.MetaData().Schema.NumColumns()),
		names:  make([]string, sc.NumFields()),
		starts: make([]int, pf.NumRowGroups()),
		group:  -1,
		pos:    -1,
	}
	for i := range s.leaves {
		s.leaves[i] = i
	}
	for i := range s.names {
		s.names[i] = sc.Field(i).Name
	}
	for g := range s.starts {
		s.starts[g] = s.rows
		s.rows += int(pf.MetaData().RowGroup(g).NumRows())
	}

	return s, nil
}

// OpenRowGroups opens the Parquet object name from store for row group
// reads. The blob stays open until Close.
func OpenRowGroups(ctx context.Context, store blobstore.BlobStore, name string, mem memory.Allocator) (*RowGroupSource, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}

	s, err := NewRowGroupSource(ctx, blobstore.NewReader(ctx, blob), mem)
	if err != nil {
		_ = blob.Close()
		return nil, err
	}
	s.blob = blob
	return s, nil
}

// RowCount implements rowsource.Source.
func (s *RowGroupSource) RowCount() int { return s.rows }

// ColumnCount implements rowsource.Source.
func (s *RowGroupSource) ColumnCount() int { return len(s.names) }

// ColumnNames implements rowsource.Source.
func (s *RowGroupSource) ColumnNames() []string { return append([]string(nil), s.names...) }

// RowGroups returns the number of row groups in the file.
func (s *RowGroupSource) RowGroups() int { return len(s.starts) }

// GroupLoads returns how many times a row group was decoded.
func (s *RowGroupSource) GroupLoads() int { return s.loads }

// MoveToPosition implements rowsource.Source. Crossing into another row group
// decodes it and drops the previous one.
func (s *RowGroupSource) MoveToPosition(row int) bool {
	s.err = nil
	switch {
	case s.closed:
		s.err = ErrClosed
		return false
	case row < 0:
		s.pos = -1
		return false
	case row >= s.rows:
		s.pos = s.rows
		return false
	}

	// Last group starting at or before row; empty groups are passed over.
	g := sort.SearchInts(s.starts, row+1) - 1
	if g != s.group {
		if err := s.decode(g); err != nil {
			s.err = err
			s.pos = -1
			return false
		}
	}

	if !s.current.MoveToPosition(row - s.starts[g]) {
		s.err = fmt.Errorf("row %d missing from row group %d", row, g)
		s.pos = -1
		return false
	}
	s.pos = row
	return true
}

// MoveToNext implements rowsource.Source.
func (s *RowGroupSource) MoveToNext() bool {
	if s.current != nil && s.pos >= 0 && s.pos+1 < s.rows && s.current.MoveToNext() {
		s.pos++
		return true
	}
	return s.MoveToPosition(s.pos + 1)
}

func (s *RowGroupSource) decode(g int) error {
	s.release()

	tbl, err := s.fr.RowGroup(g).ReadTable(s.ctx, s.leaves)
	if err != nil {
		return fmt.Errorf("read row group %d: %w", g, err)
	}
	defer tbl.Release()

	s.current = NewFromTable(tbl)
	s.group = g
	s.loads++
	return nil
}

func (s *RowGroupSource) release() {
	if s.current != nil {
		_ = s.current.Close()
		s.current = nil
	}
	s.group = -1
}

// Type implements rowsource.Source.
func (s *RowGroupSource) Type(col int) rowsource.ColumnType {
	if !s.onRow() {
		return rowsource.TypeNull
	}
	return s.current.Type(col)
}

// GetBlob implements rowsource.Source.
func (s *RowGroupSource) GetBlob(col int) []byte {
	if !s.onRow() {
		return nil
	}
	return s.current.GetBlob(col)
}

// GetFloat implements rowsource.Source.
func (s *RowGroupSource) GetFloat(col int) float64 {
	if !s.onRow() {
		return 0
	}
	return s.current.GetFloat(col)
}

// GetInt implements rowsource.Source.
func (s *RowGroupSource) GetInt(col int) int64 {
	if !s.onRow() {
		return 0
	}
	return s.current.GetInt(col)
}

// GetString implements rowsource.Source.
func (s *RowGroupSource) GetString(col int) string {
	if !s.onRow() {
		return ""
	}
	return s.current.GetString(col)
}

// Err implements rowsource.Source.
func (s *RowGroupSource) Err() error { return s.err }

// Close releases the decoded row group, the Parquet reader and, for
// OpenRowGroups, the blob. It is idempotent.
func (s *RowGroupSource) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.release()

	err := s.pf.Close()
	if s.blob != nil {
		if cerr := s.blob.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func (s *RowGroupSource) onRow() bool {
	return s.current != nil && s.pos >= 0 && s.pos < s.rows
}
