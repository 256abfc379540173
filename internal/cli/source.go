package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hupe1980/pagecursor/blobstore"
	"github.com/hupe1980/pagecursor/blobstore/minio"
	"github.com/hupe1980/pagecursor/blobstore/s3"
	"github.com/hupe1980/pagecursor/internal/cache"
	"github.com/hupe1980/pagecursor/resource"
	"github.com/hupe1980/pagecursor/rowsource"
	"github.com/hupe1980/pagecursor/rowsource/arrowsource"
	"github.com/hupe1980/pagecursor/rowsource/sqlsource"
	"github.com/spf13/cobra"
)

var errNoInput = errors.New("one of --sqlite or --parquet is required")

// sourceFlags select the table to page through.
type sourceFlags struct {
	sqlite  string
	query   string
	parquet string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.sqlite, "sqlite", "", "SQLite database file")
	cmd.Flags().StringVarP(&f.query, "query", "q", "", "SQL query to run against --sqlite")
	cmd.Flags().StringVar(&f.parquet, "parquet", "", "Parquet file: a local path, s3://bucket/key or minio://bucket/key")
}

func (f *sourceFlags) validate() error {
	switch {
	case f.sqlite == "" && f.parquet == "":
		return errNoInput
	case f.sqlite != "" && f.parquet != "":
		return errors.New("--sqlite and --parquet are mutually exclusive")
	case f.sqlite != "" && f.query == "":
		return errors.New("--query is required with --sqlite")
	}
	return nil
}

// openedSource is a row source plus whatever must be closed after it.
type openedSource struct {
	rowsource.Source
	name    string
	closers []func() error
}

func (o *openedSource) Close() error {
	var errs []error
	for i := len(o.closers) - 1; i >= 0; i-- {
		errs = append(errs, o.closers[i]())
	}
	return errors.Join(errs...)
}

func openSource(ctx context.Context, f *sourceFlags, cfg Config, rc *resource.Controller) (*openedSource, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	if f.sqlite != "" {
		return openSQLite(ctx, f.sqlite, f.query)
	}
	return openParquet(ctx, f.parquet, cfg, rc)
}

func openSQLite(ctx context.Context, path, query string) (*openedSource, error) {
	db, err := sqlsource.OpenSQLite(ctx, path)
	if err != nil {
		return nil, err
	}
	src, err := sqlsource.New(ctx, db, query)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &openedSource{
		Source:  src,
		name:    filepath.Base(path),
		closers: []func() error{db.Close, src.Close},
	}, nil
}

func openParquet(ctx context.Context, location string, cfg Config, rc *resource.Controller) (*openedSource, error) {
	store, name, remote, err := resolveStore(ctx, location, cfg)
	if err != nil {
		return nil, err
	}

	var closers []func() error
	if remote {
		c := cache.NewLRUBlockCache(cfg.CacheBytes, rc)
		closers = append(closers, c.Close)
		store = blobstore.NewCachingStore(store, c, cfg.BlockSize, rc)
	}

	src, err := arrowsource.OpenRowGroups(ctx, store, name, nil)
	if err != nil {
		for _, fn := range closers {
			_ = fn()
		}
		return nil, err
	}
	return &openedSource{
		Source:  src,
		name:    name,
		closers: append(closers, src.Close),
	}, nil
}

// resolveStore maps a location to a blob store and an object name.
func resolveStore(ctx context.Context, location string, cfg Config) (store blobstore.BlobStore, name string, remote bool, err error) {
	scheme, rest, ok := strings.Cut(location, "://")
	if !ok {
		return blobstore.NewLocalStore(filepath.Dir(location)), filepath.Base(location), false, nil
	}

	bucket, key, _ := strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return nil, "", false, fmt.Errorf("location %q: want %s://bucket/key", location, scheme)
	}

	switch scheme {
	case "s3":
		var opts []s3.Option
		if cfg.S3.Region != "" {
			opts = append(opts, s3.WithRegion(cfg.S3.Region))
		}
		st, err := s3.New(ctx, bucket, opts...)
		if err != nil {
			return nil, "", false, err
		}
		return st, key, true, nil
	case "minio":
		m := cfg.MinIO
		if m.Endpoint == "" {
			return nil, "", false, errors.New("minio.endpoint is not configured")
		}
		st, err := minio.Connect(m.Endpoint, m.AccessKey, m.SecretKey, m.Secure, bucket, "")
		if err != nil {
			return nil, "", false, err
		}
		return st, key, true, nil
	default:
		return nil, "", false, fmt.Errorf("location %q: unsupported scheme %q", location, scheme)
	}
}
