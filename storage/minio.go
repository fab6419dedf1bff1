package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/errs"
)

type MinioConfig struct {
	Endpoint        string // e.g. "minio:9000" or "localhost:9000"
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	Bucket          string
	PublicBaseURL   string
}

type MinioStore struct {
	mc      *minio.Client
	bucket  string
	baseURL string
	logger  zerolog.Logger
}

// NewMinioStore connects and creates the bucket when it does not exist.
func NewMinioStore(ctx context.Context, cfg MinioConfig) (*MinioStore, error) {
	if cfg.Endpoint == "" {
		return nil, errs.NewEnvironmentVariableError("MINIO_ENDPOINT")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := mc.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := mc.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
	}

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		baseURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}

	return &MinioStore{
		mc:      mc,
		bucket:  cfg.Bucket,
		baseURL: baseURL,
		logger:  log.With().Str("component", "minioStore").Str("bucket", cfg.Bucket).Logger(),
	}, nil
}

func (s *MinioStore) Upload(ctx context.Context, path string, r io.Reader, size int64, contentType string, progress ProgressFunc) (string, error) {
	body := withProgress(r, size, progress)
	if size <= 0 {
		size = -1
	}
	_, err := s.mc.PutObject(ctx, s.bucket, path, body, size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", errs.NewUploadError(path, err)
	}
	s.logger.Debug().Str("path", path).Int64("size", size).Msg("object uploaded")
	return publicURL(s.baseURL, path), nil
}

func (s *MinioStore) Delete(ctx context.Context, path string) error {
	err := s.mc.RemoveObject(ctx, s.bucket, path, minio.RemoveObjectOptions{})
	if err != nil && minio.ToErrorResponse(err).Code != "NoSuchKey" {
		return errs.NewDeleteObjectError(path, err)
	}
	return nil
}
