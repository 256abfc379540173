// Package blobstore abstracts where columnar source files live.
//
// A BlobStore is a flat namespace of immutable blobs. The Arrow row source
// opens Parquet files through it, so the same cursor can page rows out of a
// local directory, an S3 bucket or a MinIO server:
//
//	store := blobstore.NewLocalStore("/data")
//	blob, err := store.Open(ctx, "videos.parquet")
//	if err != nil { ... }
//	defer blob.Close()
//
//	r := blobstore.NewReader(ctx, blob) // io.ReaderAt + io.Seeker
//
// # Implementations
//
//   - MemoryStore: in-memory, for tests and fixtures
//   - LocalStore: a directory, read through memory mappings
//   - CachingStore: wraps any store with a block cache and IO throttling
//   - s3.Store: Amazon S3 range reads and managed uploads
//   - minio.Store: MinIO and other S3-compatible servers
//
// All implementations are safe for concurrent use.
package blobstore
