package libraries

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"cloud.google.com/go/storage"
)

// ImageStore keeps rendered drawing thumbnails and returns where they live.
type ImageStore interface {
	SaveImage(ctx context.Context, name string, data []byte, contentType string) (string, error)
}

type GCSImageStore struct {
	client *storage.Client
	bucket string
}

func NewGCSImageStore(client *storage.Client, bucket string) *GCSImageStore {
	return &GCSImageStore{client: client, bucket: bucket}
}

func (s *GCSImageStore) SaveImage(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	w := s.client.Bucket(s.bucket).Object(name).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write gs://%s/%s: %w", s.bucket, name, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close gs://%s/%s: %w", s.bucket, name, err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, name), nil
}

// LocalImageStore writes images under a directory, temp/images by default.
type LocalImageStore struct {
	dir string
}

func NewLocalImageStore(dir string) *LocalImageStore {
	if dir == "" {
		dir = "temp/images"
	}
	return &LocalImageStore{dir: dir}
}

func (s *LocalImageStore) SaveImage(_ context.Context, name string, data []byte, _ string) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("create image directory: %w", err)
	}
	path := filepath.Join(s.dir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return path, nil
}
