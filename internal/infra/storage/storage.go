package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/gardenpro/landscape-api/internal/config"
	"github.com/gardenpro/landscape-api/internal/domain/media"
)

var ErrStorageDisabled = errors.New("photo storage is not configured")

// Disabled rejects uploads; deletes are no-ops so cleanup never fails.
type Disabled struct{}

func (Disabled) Put(context.Context, string, io.Reader, string) (string, error) {
	return "", ErrStorageDisabled
}

func (Disabled) Delete(context.Context, string) error { return nil }

// New picks the store named by STORAGE_DRIVER.
func New(cfg *config.Config) (media.Store, error) {
	switch cfg.StorageDriver {
	case "s3":
		return NewS3Store(S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
	case "cloudinary":
		return NewCloudinaryStore(cfg.CloudinaryURL)
	case "", "none":
		log.Printf("[storage] no driver configured, photo uploads disabled")
		return Disabled{}, nil
	}
	return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
}

var _ media.Store = Disabled{}
