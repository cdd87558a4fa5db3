// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket", func(o *s3.Options) {
//	    o.Prefix = "hansen/"
//	    o.Region = "eu-central-1"
//	})
//
//	blob, err := store.Open(ctx, "solvents.csv")
//
// # Features
//
//   - Range reads for efficient partial fetches
//   - Multipart streaming uploads for large reports
//   - CRC32C integrity checks on uploads
//   - Automatic pagination for listing
//   - Custom endpoints (LocalStack, S3-compatible gateways)
package s3
