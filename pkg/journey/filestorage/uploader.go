package filestorage

import "context"

// Uploader pins remote content and metadata, returning content hashes.
type Uploader interface {
	UploadUrl(ctx context.Context, fileUrl string) (string, error)
	UploadJson(ctx context.Context, json interface{}) (string, error)
}

// ObjectStore stores encoded artifacts under a key and returns where they
// ended up.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
