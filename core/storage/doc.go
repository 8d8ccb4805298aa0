// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client so the ingest command can read already-staged
// label documents from a bucket and archive ingestion reports next to them.
// The abstraction supports both AWS S3 and self-hosted MinIO instances.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it
// easier to mock storage interactions for unit testing (see core/storage/mocks).
//
// # Operations
//
//   - BucketExists: Verifies access to the target bucket.
//   - GetObject: Retrieves a staged label document as a stream.
//   - PutObject: Uploads content, used for ingestion report archival.
//   - ListObjects: Lists staged documents under a prefix.
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	exists, err := client.BucketExists(ctx, "labels")
package storage
