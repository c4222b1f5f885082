package minio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	cfg "github.com/feichai0017/notebook-publisher/config"
	"github.com/feichai0017/notebook-publisher/pkg/logger"
	"github.com/feichai0017/notebook-publisher/pkg/storage/object"
)

// api is the subset of *minio.Client used here.
type api interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	CopyObject(ctx context.Context, dst minio.CopyDestOptions, src minio.CopySrcOptions) (minio.UploadInfo, error)
	FGetObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.GetObjectOptions) error
}

type MinioStorage struct {
	client     api
	bucketName string
	endpoint   string
	publicBase string
	logger     logger.Logger
}

// Upload implements Storage.Upload
func (m *MinioStorage) Upload(ctx context.Context, localPath, key string, public bool) (string, error) {
	f, err := object.Open(localPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	opts := minio.PutObjectOptions{ContentType: f.ContentType}
	if public {
		opts.UserMetadata = map[string]string{"x-amz-acl": "public-read"}
	}

	if _, err := m.client.PutObject(ctx, m.bucketName, key, f, f.Size, opts); err != nil {
		m.logger.Error("Failed to upload file to MinIO",
			logger.String("bucket", m.bucketName),
			logger.String("key", key),
			logger.Error(err),
		)
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	url := m.URL(key)
	m.logger.Info("Uploaded file to MinIO",
		logger.String("key", key),
		logger.String("url", url),
	)
	return url, nil
}

// URL implements Storage.URL
func (m *MinioStorage) URL(key string) string {
	return publicURL(m.publicBase, m.endpoint, m.bucketName, key)
}

func publicURL(publicBase, endpoint, bucket, key string) string {
	if publicBase != "" {
		return object.JoinURL(publicBase, key)
	}
	return object.JoinURL(endpoint, bucket, key)
}

// List implements Storage.List
func (m *MinioStorage) List(ctx context.Context, prefix string) ([]object.Info, error) {
	var objects []object.Info
	for obj := range m.client.ListObjects(ctx, m.bucketName, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			m.logger.Error("Error listing objects",
				logger.String("bucket", m.bucketName),
				logger.Error(obj.Err),
			)
			return nil, fmt.Errorf("failed to list objects: %w", obj.Err)
		}
		objects = append(objects, object.Info{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
			URL:          m.URL(obj.Key),
		})
	}
	return objects, nil
}

// Delete implements Storage.Delete
func (m *MinioStorage) Delete(ctx context.Context, key string) error {
	err := m.client.RemoveObject(ctx, m.bucketName, key, minio.RemoveObjectOptions{})
	if err != nil {
		m.logger.Error("Failed to delete file from MinIO",
			logger.String("bucket", m.bucketName),
			logger.String("key", key),
			logger.Error(err),
		)
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// Move implements Storage.Move
func (m *MinioStorage) Move(ctx context.Context, src, dst string) error {
	_, err := m.client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: m.bucketName, Object: dst},
		minio.CopySrcOptions{Bucket: m.bucketName, Object: src},
	)
	if err != nil {
		m.logger.Error("Failed to copy object",
			logger.String("src", src),
			logger.String("dst", dst),
			logger.Error(err),
		)
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	if err := m.Delete(ctx, src); err != nil {
		return err
	}
	m.logger.Info("Moved object", logger.String("src", src), logger.String("dst", dst))
	return nil
}

// Download implements Storage.Download
func (m *MinioStorage) Download(ctx context.Context, key, localPath string) error {
	if err := m.client.FGetObject(ctx, m.bucketName, key, localPath, minio.GetObjectOptions{}); err != nil {
		m.logger.Error("Failed to download file from MinIO",
			logger.String("bucket", m.bucketName),
			logger.String("key", key),
			logger.Error(err),
		)
		return fmt.Errorf("failed to download %s: %w", key, err)
	}
	m.logger.Info("Downloaded object", logger.String("key", key), logger.String("path", localPath))
	return nil
}

// CleanupBefore implements Storage.CleanupBefore
func (m *MinioStorage) CleanupBefore(ctx context.Context, prefix string, threshold time.Time) (int, error) {
	objects, err := m.List(ctx, prefix)
	if err != nil {
		return 0, err
	}

	deleted := 0
	var failed []error
	for _, obj := range objects {
		if !obj.LastModified.Before(threshold) {
			continue
		}
		if err := m.Delete(ctx, obj.Key); err != nil {
			failed = append(failed, err)
			continue
		}
		deleted++
		m.logger.Info("Deleted expired object",
			logger.String("key", obj.Key),
			logger.Time("lastModified", obj.LastModified),
		)
	}
	return deleted, errors.Join(failed...)
}

func NewMinioStorage(ctx context.Context, minioConfig cfg.MinioConfig, log logger.Logger) (*MinioStorage, error) {
	if minioConfig.Endpoint == "" || minioConfig.BucketName == "" {
		return nil, fmt.Errorf("minio endpoint and bucket must be configured")
	}
	client, err := minio.New(minioConfig.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(minioConfig.AccessKey, minioConfig.SecretKey, ""),
		Secure: minioConfig.UseSSL,
		Region: minioConfig.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, minioConfig.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = client.MakeBucket(ctx, minioConfig.BucketName, minio.MakeBucketOptions{
			Region: minioConfig.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		log.Info("Created bucket", logger.String("bucket", minioConfig.BucketName))
	}

	return newMinioStorage(client, client.EndpointURL().String(), minioConfig, log), nil
}

func newMinioStorage(client api, endpoint string, minioConfig cfg.MinioConfig, log logger.Logger) *MinioStorage {
	return &MinioStorage{
		client:     client,
		bucketName: minioConfig.BucketName,
		endpoint:   endpoint,
		publicBase: minioConfig.PublicBaseURL,
		logger:     log,
	}
}
