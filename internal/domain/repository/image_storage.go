package repository

import (
	"context"
	"io"

	"github.com/listing-service/internal/domain"
)

// ImageUpload - загруженный файл, ожидающий сохранения в blob storage
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// ImageStorage - внешнее blob-хранилище изображений. Результат для ядра непрозрачен.
type ImageStorage interface {
	Upload(ctx context.Context, upload ImageUpload) (*domain.Image, error)
	Delete(ctx context.Context, filename string) error
}
