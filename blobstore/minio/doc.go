// Package minio provides a BlobStore implementation using the MinIO client.
//
// MinIO is an S3-compatible object storage system. This package uses the
// official MinIO Go client library and works with other S3-compatible systems
// like Ceph, SeaweedFS and Garage.
//
// # Basic Usage
//
//	store, err := minio.New("localhost:9000", "tables", func(o *minio.Options) {
//	    o.AccessKey = "minioadmin"
//	    o.SecretKey = "minioadmin"
//	    o.Prefix = "hansen/"
//	})
//
// Without static keys the MINIO_ACCESS_KEY / MINIO_SECRET_KEY (or AWS_*)
// environment variables are used.
//
// # Features
//
//   - Streaming uploads for large reports
//   - Range reads
//   - Air-gap friendly (no AWS dependencies required)
package minio
