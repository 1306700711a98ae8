// Package minio implements the object store on a MinIO or S3-compatible
// bucket using minio-go. Presigned GET URLs provide the time-limited
// delivery links; object removal is idempotent per S3 semantics, so
// deleting an absent key is not an error.
package minio

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/sagarc03/noteshare"
)

// Config holds connection settings for a MinIO/S3 backend.
type Config struct {
	Endpoint        string `mapstructure:"endpoint" validate:"required"`
	AccessKeyID     string `mapstructure:"access_key_id" validate:"required"`
	SecretAccessKey string `mapstructure:"secret_access_key" validate:"required"`
	Bucket          string `mapstructure:"bucket" validate:"required"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// Store provides object storage operations against one bucket.
type Store struct {
	client *minio.Client
	bucket string
}

// New connects to the backend and ensures the bucket exists.
func New(ctx context.Context, cfg Config) (*Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("new minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &Store{client: client, bucket: cfg.Bucket}, nil
}

// Put writes a blob and normalizes the acknowledgement. minio-go either
// errors or returns upload info echoing the stored key, so a successful
// call always yields a key acknowledgement.
func (s *Store) Put(ctx context.Context, key string, content io.Reader, size int64, contentType string) (noteshare.PutAck, error) {
	info, err := s.client.PutObject(ctx, s.bucket, key, content, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return noteshare.PutAck{}, fmt.Errorf("put object %s: %w", key, err)
	}

	return noteshare.AckForKey(info.Key), nil
}

func (s *Store) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, ttl, nil)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}

	return u.String(), nil
}

func (s *Store) PublicURL(key string) string {
	return s.client.EndpointURL().JoinPath(s.bucket, key).String()
}

func (s *Store) Delete(ctx context.Context, keys []string) error {
	for _, key := range keys {
		if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("remove object %s: %w", key, err)
		}
	}

	return nil
}

// ListKeys enumerates every key in the bucket, for reconciliation.
func (s *Store) ListKeys(ctx context.Context) ([]string, error) {
	var keys []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list objects: %w", obj.Err)
		}
		keys = append(keys, obj.Key)
	}

	return keys, nil
}
