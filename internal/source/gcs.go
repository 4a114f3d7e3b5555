package source

import (
	"context"
	"io"

	gcs "cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
)

// GCSFetcher reads inputs from Google Cloud Storage.
type GCSFetcher struct {
	client *gcs.Client
	bucket string
}

// NewGCSFetcher creates a GCS-backed Fetcher.
// It uses Application Default Credentials.
func NewGCSFetcher(ctx context.Context, bucket string) (*GCSFetcher, error) {
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create gcs client")
	}
	return &GCSFetcher{client: client, bucket: bucket}, nil
}

// Fetch downloads the object at key.
func (f *GCSFetcher) Fetch(ctx context.Context, key string) ([]byte, error) {
	r, err := f.client.Bucket(f.bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "gcs read failed", goerr.V("bucket", f.bucket), goerr.V("key", key))
	}
	defer r.Close()
	return io.ReadAll(r)
}

// Close releases the underlying client.
func (f *GCSFetcher) Close() error {
	return f.client.Close()
}
