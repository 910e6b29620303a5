package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/nosaterra/apiserver/config"
)

// ObjectStorage defines common object operations across backends.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// Media stores uploaded member media (avatars, post photos) on an
// object-storage backend.
type Media struct {
	backend ObjectStorage
}

// NewMedia constructs a Media store for the provided backend.
func NewMedia(backend ObjectStorage) *Media {
	return &Media{backend: backend}
}

// NewMediaFromConfig builds the configured backend, or returns nil when
// media storage is disabled ("none").
func NewMediaFromConfig(ctx context.Context, cfg config.StorageConfig) (*Media, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", "none":
		return nil, nil
	case "minio":
		backend, err := NewMinioClient(cfg.Minio)
		if err != nil {
			return nil, err
		}
		media := NewMedia(backend)
		if err := media.backend.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return media, nil
	case "gcs":
		backend, err := NewGCSClient(ctx, cfg.GCS)
		if err != nil {
			return nil, err
		}
		media := NewMedia(backend)
		if err := media.backend.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return media, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// Upload stores an object under the given key.
func (m *Media) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	return m.backend.Put(ctx, key, r, size, contentType)
}

// Open returns a reader for a stored object.
func (m *Media) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return m.backend.Get(ctx, key)
}

// Delete removes a stored object.
func (m *Media) Delete(ctx context.Context, key string) error {
	return m.backend.Delete(ctx, key)
}
