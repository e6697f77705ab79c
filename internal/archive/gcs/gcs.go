// Package gcs archives collection snapshots in a Google Cloud Storage bucket.
package gcs

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/storage"
)

// Archive uploads snapshot objects into one bucket under a fixed prefix.
// Authentication uses Application Default Credentials.
type Archive struct {
	client *storage.Client
	bucket string
	prefix string
}

// New creates an Archive and verifies bucket access so a misconfigured bucket
// fails at startup rather than at the first autosave.
func New(ctx context.Context, bucket, prefix string) (*Archive, error) {
	if bucket == "" {
		return nil, fmt.Errorf("archive.bucket is required")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}
	if _, err := client.Bucket(bucket).Attrs(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("check gcs bucket %q: %w", bucket, err)
	}
	return &Archive{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}, nil
}

// PutObject uploads data and returns the gs:// URI of the object.
func (a *Archive) PutObject(ctx context.Context, path, contentType string, data []byte) (string, error) {
	name := a.objectName(path)
	w := a.client.Bucket(a.bucket).Object(name).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write gcs object %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize gcs object %s: %w", name, err)
	}
	return fmt.Sprintf("gs://%s/%s", a.bucket, name), nil
}

// Close releases the client.
func (a *Archive) Close() error {
	return a.client.Close()
}

func (a *Archive) objectName(path string) string {
	path = strings.TrimLeft(path, "/")
	if a.prefix == "" {
		return path
	}
	return a.prefix + "/" + path
}
