package arrowsource

import (
	"context"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/hupe1980/pagecursor/blobstore"
)

// OpenParquet reads the Parquet file behind r into an Arrow table.
// If mem is nil, the Go allocator is used.
func OpenParquet(ctx context.Context, r parquet.ReaderAtSeeker, mem memory.Allocator) (*Source, error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	pf, err := file.NewParquetReader(r, file.WithReadProps(parquet.NewReaderProperties(mem)))
	if err != nil {
		return nil, fmt.Errorf("create parquet reader: %w", err)
	}
	defer pf.Close()

	fr, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, fmt.Errorf("create arrow reader: %w", err)
	}

	tbl, err := fr.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("read parquet data: %w", err)
	}
	defer tbl.Release()

	return NewFromTable(tbl), nil
}

// OpenParquetBlob reads the Parquet object name from store. Only the footer
// and the column chunks are fetched, through ranged reads on the blob.
func OpenParquetBlob(ctx context.Context, store blobstore.BlobStore, name string, mem memory.Allocator) (*Source, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer blob.Close()

	return OpenParquet(ctx, blobstore.NewReader(ctx, blob), mem)
}
