package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/feichai0017/notebook-publisher/config"
	"github.com/feichai0017/notebook-publisher/pkg/logger"
	"github.com/feichai0017/notebook-publisher/pkg/storage/minio"
	"github.com/feichai0017/notebook-publisher/pkg/storage/object"
	"github.com/feichai0017/notebook-publisher/pkg/storage/s3"
)

// StorageType 定义存储类型
type StorageType string

const (
	StorageTypeS3    StorageType = "s3"
	StorageTypeMinio StorageType = "minio"
)

// ObjectInfo describes a stored object.
type ObjectInfo = object.Info

// Storage 接口定义
type Storage interface {
	// Upload stores the file at localPath under key and returns its public URL.
	// Uploading to an existing key overwrites it.
	Upload(ctx context.Context, localPath, key string, public bool) (string, error)
	// URL returns the address an object under key is served from.
	URL(key string) string
	// List returns the objects whose keys start with prefix.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
	// Delete removes one object.
	Delete(ctx context.Context, key string) error
	// Move copies src to dst and deletes src.
	Move(ctx context.Context, src, dst string) error
	// Download writes the object under key to localPath.
	Download(ctx context.Context, key, localPath string) error
	// CleanupBefore removes objects under prefix older than threshold and
	// reports how many were deleted. Failed deletions are returned joined
	// after the sweep.
	CleanupBefore(ctx context.Context, prefix string, threshold time.Time) (int, error)
}

// NewStorage 创建存储实例的工厂方法
func NewStorage(ctx context.Context, cfg config.StorageConfig, log logger.Logger) (Storage, error) {
	switch StorageType(cfg.Type) {
	case StorageTypeS3:
		return s3.NewS3Storage(ctx, cfg.S3, log.Named("s3"))
	case StorageTypeMinio:
		return minio.NewMinioStorage(ctx, cfg.Minio, log.Named("minio"))
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
