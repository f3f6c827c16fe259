package storage

import (
	"context"
	"io"

	gcs "cloud.google.com/go/storage"
	"github.com/pkg/errors"
	"google.golang.org/api/iterator"
)

// ObjectStore is the read-only view of the remote bucket the pipeline
// needs: list keys under a namespace, download one object.
// This interface enables mocking and testing of storage functionality.
type ObjectStore interface {
	// List returns every object key under prefix, in listing order.
	List(ctx context.Context, prefix string) ([]string, error)

	// Download returns the full contents of the object at key.
	Download(ctx context.Context, key string) ([]byte, error)
}

// GCSStore is the concrete ObjectStore backed by a Google Cloud Storage
// bucket. It assumes Application Default Credentials are configured.
type GCSStore struct {
	client *gcs.Client
	bucket string
}

// NewGCSStore creates a GCSStore for the given bucket.
func NewGCSStore(ctx context.Context, bucket string) (*GCSStore, error) {
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "create storage client")
	}
	return &GCSStore{client: client, bucket: bucket}, nil
}

// Close releases the underlying client.
func (s *GCSStore) Close() error {
	return s.client.Close()
}

// List returns every object key in the bucket under prefix.
func (s *GCSStore) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	it := s.client.Bucket(s.bucket).Objects(ctx, &gcs.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "listing objects under %q", prefix)
		}
		keys = append(keys, attrs.Name)
	}
	return keys, nil
}

// Download returns the bytes of the object at key.
func (s *GCSStore) Download(ctx context.Context, key string) ([]byte, error) {
	r, err := s.client.Bucket(s.bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "open object reader for %q", key)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "read object %q", key)
	}
	return data, nil
}
