package minio

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/listing-service/internal/config"
	"github.com/listing-service/internal/domain"
	"github.com/listing-service/internal/domain/repository"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// uploadPrefix - префикс ключей объектов; на нём строится проекция DisplayURL
const uploadPrefix = "upload"


type Storage struct {
	client   *minio.Client
	bucket   string
	endpoint string
	logger   *zap.Logger
}

// NewStorage создает MinIO/S3 хранилище изображений и гарантирует наличие bucket
func NewStorage(ctx context.Context, cfg *config.MinIOConfig, logger *zap.Logger) (*Storage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", cfg.Endpoint, err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
		logger.Info("MinIO bucket created", zap.String("bucket", cfg.Bucket))
	}

	logger.Info("MinIO storage initialized",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("bucket", cfg.Bucket),
		zap.Bool("use_ssl", cfg.UseSSL))

	return &Storage{
		client:   client,
		bucket:   cfg.Bucket,
		endpoint: client.EndpointURL().String(),
		logger:   logger,
	}, nil
}

var _ repository.ImageStorage = (*Storage)(nil)

// Upload сохраняет файл под ключом upload/<uuid><ext> и возвращает ссылку на него
func (s *Storage) Upload(ctx context.Context, upload repository.ImageUpload) (*domain.Image, error) {
	objectKey := ObjectKey(upload.Filename)

	info, err := s.client.PutObject(ctx, s.bucket, objectKey, upload.Reader, upload.Size, minio.PutObjectOptions{
		ContentType:  upload.ContentType,
		UserMetadata: map[string]string{"original-filename": upload.Filename},
	})
	if err != nil {
		s.logger.Error("Failed to upload image",
			zap.String("bucket", s.bucket),
			zap.String("key", objectKey),
			zap.Error(err))
		return nil, fmt.Errorf("failed to upload object %s: %w", objectKey, err)
	}

	s.logger.Info("Image uploaded",
		zap.String("key", info.Key),
		zap.Int64("size", info.Size))

	return &domain.Image{
		URL:      ObjectURL(s.endpoint, s.bucket, objectKey),
		Filename: objectKey,
	}, nil
}

// Delete удаляет объект; отсутствие объекта не считается ошибкой
func (s *Storage) Delete(ctx context.Context, filename string) error {
	if filename == "" {
		return nil
	}
	if err := s.client.RemoveObject(ctx, s.bucket, filename, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %s: %w", filename, err)
	}
	return nil
}

// ObjectKey строит уникальный ключ объекта, сохраняя расширение исходного файла
func ObjectKey(originalFilename string) string {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	return path.Join(uploadPrefix, uuid.NewString()+ext)
}

// ObjectURL формирует публичную ссылку http(s)://<endpoint>/<bucket>/<key>
func ObjectURL(endpoint, bucket, key string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(endpoint, "/"), bucket, key)
}
