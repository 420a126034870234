package storage

import (
	"fmt"

	"github.com/maroccart/backend/internal/application/media"
	"github.com/maroccart/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// New creates the image storage selected by cfg.Driver
func New(cfg *config.StorageConfig, logger *zap.Logger) (media.ImageStorage, error) {
	switch cfg.Driver {
	case "", "local":
		logger.Info("using local image storage", zap.String("dir", cfg.LocalDir))
		return NewLocalImageStorage(cfg.LocalDir, cfg.PublicPath)
	case "s3":
		logger.Info("using S3 image storage", zap.String("bucket", cfg.S3Bucket))
		return NewS3ImageStorage(cfg, WithLogger(logger))
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
