package storage

import (
	"context"
	"fmt"

	"instafeed/internal/config"
)

// MemoryBasePath is where the memory driver's objects are served
const MemoryBasePath = "/media"

// NewFromConfig creates a FileStore implementation based on the storage driver.
func NewFromConfig(ctx context.Context, cfg config.StorageConfig) (FileStore, error) {
	switch cfg.Driver {
	case "memory":
		return NewMemoryStore(MemoryBasePath), nil
	case "s3":
		if cfg.Bucket == "" {
			return nil, fmt.Errorf("s3 storage requires bucket to be set")
		}
		return NewS3Store(ctx, cfg)
	case "minio":
		if cfg.Endpoint == "" || cfg.Bucket == "" {
			return nil, fmt.Errorf("minio storage requires endpoint and bucket to be set")
		}
		return NewMinioStore(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Driver)
	}
}
