package s3

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	cfg "github.com/feichai0017/notebook-publisher/config"
	"github.com/feichai0017/notebook-publisher/pkg/logger"
	"github.com/feichai0017/notebook-publisher/pkg/storage/object"
)

// api is the subset of *s3.Client used here.
type api interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	CopyObject(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	s3.ListObjectsV2APIClient
}

type S3Storage struct {
	client     api
	bucketName string
	region     string
	endpoint   string
	publicBase string
	logger     logger.Logger
}

// Upload 上传本地文件并返回公开地址
func (s *S3Storage) Upload(ctx context.Context, localPath, key string, public bool) (string, error) {
	f, err := object.Open(localPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucketName),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(f.Size),
		ContentType:   aws.String(f.ContentType),
	}
	if public {
		input.ACL = types.ObjectCannedACLPublicRead
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		s.logger.Error("Failed to upload file to S3",
			logger.String("bucket", s.bucketName),
			logger.String("key", key),
			logger.Error(err),
		)
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	url := s.URL(key)
	s.logger.Info("Uploaded file to S3",
		logger.String("key", key),
		logger.String("contentType", f.ContentType),
		logger.String("url", url),
	)
	return url, nil
}

// URL returns the public address of key.
func (s *S3Storage) URL(key string) string {
	switch {
	case s.publicBase != "":
		return object.JoinURL(s.publicBase, key)
	case s.endpoint != "":
		return object.JoinURL(s.endpoint, s.bucketName, key)
	default:
		return object.JoinURL(fmt.Sprintf("https://%s.s3.%s.amazonaws.com", s.bucketName, s.region), key)
	}
}

// List 列出前缀下的对象
func (s *S3Storage) List(ctx context.Context, prefix string) ([]object.Info, error) {
	var objects []object.Info
	err := s.walk(ctx, prefix, func(obj types.Object) error {
		info := object.Info{
			Key: aws.ToString(obj.Key),
			URL: s.URL(aws.ToString(obj.Key)),
		}
		if obj.Size != nil {
			info.Size = *obj.Size
		}
		if obj.LastModified != nil {
			info.LastModified = *obj.LastModified
		}
		objects = append(objects, info)
		return nil
	})
	return objects, err
}

func (s *S3Storage) walk(ctx context.Context, prefix string, fn func(types.Object) error) error {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucketName),
	}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	paginator := s3.NewListObjectsV2Paginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			s.logger.Error("Failed to list objects",
				logger.String("bucket", s.bucketName),
				logger.Error(err),
			)
			return fmt.Errorf("failed to list objects: %w", err)
		}
		for _, obj := range page.Contents {
			if err := fn(obj); err != nil {
				return err
			}
		}
	}
	return nil
}

// Delete 删除对象
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		s.logger.Error("Failed to delete file from S3",
			logger.String("bucket", s.bucketName),
			logger.String("key", key),
			logger.Error(err),
		)
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Move copies src to dst and then deletes src. Objects cannot be renamed in place.
func (s *S3Storage) Move(ctx context.Context, src, dst string) error {
	_, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(s.bucketName),
		CopySource: aws.String(s.bucketName + "/" + object.EscapeKey(src)),
		Key:        aws.String(dst),
	})
	if err != nil {
		s.logger.Error("Failed to copy object",
			logger.String("src", src),
			logger.String("dst", dst),
			logger.Error(err),
		)
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	if err := s.Delete(ctx, src); err != nil {
		return err
	}
	s.logger.Info("Moved object", logger.String("src", src), logger.String("dst", dst))
	return nil
}

// Download 下载对象到本地文件
func (s *S3Storage) Download(ctx context.Context, key, localPath string) error {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		s.logger.Error("Failed to get object",
			logger.String("bucket", s.bucketName),
			logger.String("key", key),
			logger.Error(err),
		)
		return fmt.Errorf("failed to download %s: %w", key, err)
	}
	defer out.Body.Close()

	if err := object.WriteFile(localPath, out.Body); err != nil {
		return err
	}
	s.logger.Info("Downloaded object", logger.String("key", key), logger.String("path", localPath))
	return nil
}

// CleanupBefore deletes objects under prefix last modified before threshold.
// Failed deletions do not stop the sweep; they are returned joined.
func (s *S3Storage) CleanupBefore(ctx context.Context, prefix string, threshold time.Time) (int, error) {
	deleted := 0
	var failed []error
	err := s.walk(ctx, prefix, func(obj types.Object) error {
		if obj.LastModified == nil || !obj.LastModified.Before(threshold) {
			return nil
		}
		if err := s.Delete(ctx, aws.ToString(obj.Key)); err != nil {
			failed = append(failed, err)
			return nil
		}
		deleted++
		s.logger.Info("Deleted expired object",
			logger.String("key", aws.ToString(obj.Key)),
			logger.Time("lastModified", *obj.LastModified),
		)
		return nil
	})
	return deleted, errors.Join(append(failed, err)...)
}

func NewS3Storage(ctx context.Context, s3Config cfg.S3Config, log logger.Logger) (*S3Storage, error) {
	log.Debug("S3 Configuration",
		logger.String("bucket", s3Config.BucketName),
		logger.String("region", s3Config.Region),
		logger.String("endpoint", s3Config.Endpoint),
	)
	if s3Config.BucketName == "" {
		return nil, fmt.Errorf("s3 bucket name is not configured")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(s3Config.Region),
	}
	if s3Config.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s3Config.AccessKey,
			s3Config.SecretKey,
			"",
		)))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if s3Config.Endpoint != "" {
			o.BaseEndpoint = aws.String(s3Config.Endpoint)
			o.UsePathStyle = true
		}
	})

	// 验证 bucket 是否存在
	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s3Config.BucketName),
	}); err != nil {
		return nil, fmt.Errorf("failed to verify bucket existence: %w", err)
	}

	return newS3Storage(client, s3Config, log), nil
}

func newS3Storage(client api, s3Config cfg.S3Config, log logger.Logger) *S3Storage {
	return &S3Storage{
		client:     client,
		bucketName: s3Config.BucketName,
		region:     s3Config.Region,
		endpoint:   s3Config.Endpoint,
		publicBase: s3Config.PublicBaseURL,
		logger:     log,
	}
}
