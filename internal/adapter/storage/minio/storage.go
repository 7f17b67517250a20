package minio

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/Realquiid/vendopage/internal/app/config"
	"github.com/Realquiid/vendopage/internal/platform/logger"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Storage uploads listing photos to a MinIO/S3 bucket and returns their
// public URL together with the object key used.
type Storage struct {
	client *minio.Client
	bucket string
	log    logger.Logger
}

func NewStorage(ctx context.Context, cfg config.MinIOConfig, log logger.Logger) (*Storage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", cfg.Endpoint, err)
	}

	err = client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{})
	if err != nil {
		exists, errBucketExists := client.BucketExists(ctx, cfg.Bucket)
		if errBucketExists != nil || !exists {
			return nil, fmt.Errorf("failed to make/verify bucket %s: (make: %v / exists_check: %v)",
				cfg.Bucket, err, errBucketExists)
		}
		log.Infof("Bucket %s already exists", cfg.Bucket)
	}

	return &Storage{client: client, bucket: cfg.Bucket, log: log}, nil
}

// Upload stores raw image bytes under a generated object key inside folder.
// The original filename only contributes its extension.
func (s *Storage) Upload(ctx context.Context, folder, originalFileName string, data []byte) (url, objectKey string, err error) {
	ext := filepath.Ext(originalFileName)
	objectKey = fmt.Sprintf("%s/%s%s", folder, uuid.New().String(), ext)

	_, err = s.client.PutObject(ctx, s.bucket, objectKey, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: http.DetectContentType(data)})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload object %s to bucket %s: %w", objectKey, s.bucket, err)
	}

	url = fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, objectKey)
	s.log.Debugf("uploaded %s (%d bytes) to %s", originalFileName, len(data), url)
	return url, objectKey, nil
}
