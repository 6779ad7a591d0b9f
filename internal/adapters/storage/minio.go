// Package storage archives raw lead import files in S3 compatible object
// storage.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"telecrm_backend/platform/config"
)

// PresignedURLTTL is the expiration time for download links.
const PresignedURLTTL = 15 * time.Minute

// MinIOService stores import payloads in a MinIO bucket.
type MinIOService struct {
	client *minio.Client
	bucket string
}

// NewMinIOService creates the storage adapter and ensures the bucket exists.
func NewMinIOService(ctx context.Context, cfg config.StorageConfig) (*MinIOService, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, fmt.Errorf("MinIO is not configured")
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("create MinIO client: %w", err)
	}

	s := &MinIOService{client: client, bucket: cfg.GetMinioBucketLeadImports()}
	if err := s.ensureBucketExists(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MinIOService) ensureBucketExists(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.bucket, err)
		}
	}
	return nil
}

// StoreImportFile writes the raw payload under the given key and returns the
// key for the import history row.
func (s *MinIOService) StoreImportFile(ctx context.Context, key string, payload []byte) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("store import file: %w", err)
	}
	return key, nil
}

// DownloadURL returns a presigned link to a stored import file.
func (s *MinIOService) DownloadURL(ctx context.Context, key string) (string, error) {
	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, key, PresignedURLTTL, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}
	return presigned.String(), nil
}

// NoopStore is used when object storage is disabled; imports proceed without
// archival.
type NoopStore struct{}

func (NoopStore) StoreImportFile(context.Context, string, []byte) (string, error) {
	return "", nil
}
