package media

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/clubhouse/club-cms/internal/config"
)

const publicReadPolicy = `{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`

// ObjectStore uploads images to an S3-compatible bucket with public reads.
type ObjectStore struct {
	client     *minio.Client
	bucket     string
	baseURL    string
	normalizer Normalizer
}

// NewObjectStore connects to the bucket, creating it when missing.
func NewObjectStore(ctx context.Context, cfg config.MediaConfig) (*ObjectStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio make bucket: %w", err)
		}
		if err := client.SetBucketPolicy(ctx, cfg.Bucket, fmt.Sprintf(publicReadPolicy, cfg.Bucket)); err != nil {
			return nil, fmt.Errorf("minio bucket policy: %w", err)
		}
	}

	return &ObjectStore{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: publicBaseURL(cfg),
		normalizer: Normalizer{
			MaxWidth:  cfg.MaxImageWidth,
			MaxBytes:  cfg.MaxUploadBytes,
			MaxPixels: cfg.MaxImagePixels,
		},
	}, nil
}

// Upload validates file and stores it under folder/<uuid>.<ext>.
func (s *ObjectStore) Upload(ctx context.Context, file File, folder string) (string, error) {
	img, err := s.normalizer.Normalize(file.Data)
	if err != nil {
		return "", err
	}

	key := objectKey(folder, img.Ext)
	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(img.Data), int64(len(img.Data)), minio.PutObjectOptions{
		ContentType: img.ContentType,
	})
	if err != nil {
		return "", fmt.Errorf("minio put %s: %w", key, err)
	}
	return s.url(key), nil
}

// Remove deletes the object behind url.
func (s *ObjectStore) Remove(ctx context.Context, url string) error {
	key, ok := s.keyFromURL(url)
	if !ok {
		return ErrForeignObject
	}
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

func (s *ObjectStore) url(key string) string {
	return s.baseURL + "/" + s.bucket + "/" + key
}

func (s *ObjectStore) keyFromURL(url string) (string, bool) {
	prefix := s.baseURL + "/" + s.bucket + "/"
	if !strings.HasPrefix(url, prefix) || len(url) == len(prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}

func objectKey(folder, ext string) string {
	return folder + "/" + uuid.NewString() + "." + ext
}

func publicBaseURL(cfg config.MediaConfig) string {
	if cfg.PublicBaseURL != "" {
		return strings.TrimRight(cfg.PublicBaseURL, "/")
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return scheme + "://" + cfg.Endpoint
}
