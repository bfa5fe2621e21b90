// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client so source exports can live in an S3 or MinIO
// bucket. When remote mode is enabled, source spreadsheets are downloaded into
// the local files directory before loading, and finished reports can be
// uploaded back.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (as seen in core/storage/mocks).
//
// # Operations
//
//   - Fetch: Downloads an object to a local path unless the path already exists.
//   - Upload: Uploads a local file (e.g. a comparison report).
//   - List: Lists object keys under a prefix, filtered by extension.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	fetched, err := storage.Fetch(ctx, client, "exports", "files/prod.xlsx", "files/prod.xlsx")
package storage
