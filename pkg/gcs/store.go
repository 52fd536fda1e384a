package gcs

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
)

// Store uploads content to the configured Cloud Storage bucket.
type Store struct {
	bucket     *storage.BucketHandle
	bucketName string
}

func NewStore(ctx context.Context, app *firebase.App, bucketName string) (*Store, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("GCS_BUCKET_NAME is required")
	}
	client, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to open bucket %s: %w", bucketName, err)
	}
	return &Store{bucket: bucket, bucketName: bucketName}, nil
}

// Upload writes the object and returns its gs:// URI. When grounding is set,
// the object is marked as reference material for future retrieval.
func (s *Store) Upload(ctx context.Context, name string, data []byte, grounding bool) (string, error) {
	w := s.bucket.Object(name).NewWriter(ctx)
	if grounding {
		w.Metadata = map[string]string{"grounding": "true"}
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to upload %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload of %s: %w", name, err)
	}

	uri := fmt.Sprintf("gs://%s/%s", s.bucketName, name)
	log.Printf("[GCS] Uploaded %s", uri)
	return uri, nil
}
