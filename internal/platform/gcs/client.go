// Package gcs reads the read-only data blobs (CSV extract, boundary GeoJSON)
// from Google Cloud Storage.
package gcs

import (
	"context"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/stadslab/heat-readiness-map/apps/api/internal/platform/config"
)

// New creates a Storage client using credentials provided via env (base64 or
// file), falling back to application default credentials. It returns the client
// and a description of which credential source was used.
func New(ctx context.Context, cfg config.Config) (*storage.Client, string, error) {
	creds, source, err := cfg.GCSCredentialsJSON()
	if err != nil {
		return nil, "", err
	}

	var opts []option.ClientOption
	if len(creds) > 0 {
		opts = append(opts, option.WithCredentialsJSON(creds))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, "", fmt.Errorf("init storage client: %w", err)
	}
	return client, source, nil
}

// Ping performs a lightweight check by reading the bucket metadata.
func Ping(ctx context.Context, client *storage.Client, bucket string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := client.Bucket(bucket).Attrs(ctx)
	return err
}

// ObjectFetcher streams one object from a bucket. It satisfies the dataset
// Fetcher interface.
type ObjectFetcher struct {
	client *storage.Client
	bucket string
	object string
}

func NewObjectFetcher(client *storage.Client, bucket, object string) *ObjectFetcher {
	return &ObjectFetcher{client: client, bucket: bucket, object: object}
}

func (f *ObjectFetcher) Fetch(ctx context.Context) (io.ReadCloser, error) {
	r, err := f.client.Bucket(f.bucket).Object(f.object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open gs://%s/%s: %w", f.bucket, f.object, err)
	}
	return r, nil
}
