// Package s3 provides a blobstore.BlobStore backed by Amazon S3.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("exports/"),
//	    s3.WithRegion("us-east-1"),
//	)
//	src, err := arrowsource.OpenParquetBlob(ctx, store, "videos.parquet", nil)
//
// Reads are ranged GetObject calls, so a Parquet reader only transfers the
// footer and the column chunks it needs. Writes go through the SDK's
// managed uploader, which switches to multipart uploads for large blobs.
package s3
