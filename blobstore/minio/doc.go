// Package minio provides a blobstore.BlobStore for MinIO and other
// S3-compatible servers (Ceph, Garage, SeaweedFS) using the MinIO client.
//
// # Basic Usage
//
//	store, err := minio.Connect("localhost:9000", "minioadmin", "minioadmin", false, "exports", "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	src, err := arrowsource.OpenParquetBlob(ctx, store, "videos.parquet", nil)
//
// Or wrap an existing client:
//
//	client, _ := minio.New("s3.example.com:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
//	    Secure: true,
//	})
//	store := minioblob.NewStore(client, "exports", "catalog/")
package minio
