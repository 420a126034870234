package media

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/maroccart/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const (
	productPrefix   = "products/"
	thumbnailPrefix = "products/thumbnails/"
)

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// UploadService validates and stores product images
type UploadService struct {
	storage ImageStorage
	policy  Policy
	logger  *zap.Logger
}

// NewUploadService creates a new UploadService
func NewUploadService(storage ImageStorage, policy Policy, logger *zap.Logger) *UploadService {
	def := DefaultPolicy()
	if policy.MaxSize <= 0 {
		policy.MaxSize = def.MaxSize
	}
	if policy.MaxFiles <= 0 {
		policy.MaxFiles = def.MaxFiles
	}
	if len(policy.AllowedTypes) == 0 {
		policy.AllowedTypes = def.AllowedTypes
	}
	return &UploadService{storage: storage, policy: policy, logger: logger}
}

// Upload stores one image and a thumbnail copy
func (s *UploadService) Upload(ctx context.Context, file *File) (*UploadedImage, error) {
	if file == nil || len(file.Data) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "No image provided")
	}
	contentType, err := s.check(file)
	if err != nil {
		return nil, err
	}

	filename := uuid.New().String() + extensions[contentType]
	key := productPrefix + filename
	thumbKey := thumbnailPrefix + filename

	if err := s.storage.Put(ctx, key, file.Data, contentType); err != nil {
		s.logger.Error("Failed to store image", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("failed to store image: %w", err)
	}
	if err := s.storage.Put(ctx, thumbKey, file.Data, contentType); err != nil {
		s.discard(ctx, key)
		s.logger.Error("Failed to store thumbnail", zap.String("key", thumbKey), zap.Error(err))
		return nil, fmt.Errorf("failed to store thumbnail: %w", err)
	}

	s.logger.Info("Image uploaded",
		zap.String("filename", filename),
		zap.String("original", file.Name),
		zap.String("content_type", contentType),
		zap.Int("size", len(file.Data)),
	)
	return &UploadedImage{
		Filename:  filename,
		Path:      key,
		URL:       s.storage.URL(key),
		Thumbnail: s.storage.URL(thumbKey),
	}, nil
}

// UploadMany validates every file before storing any of them
func (s *UploadService) UploadMany(ctx context.Context, files []*File) ([]UploadedImage, error) {
	if len(files) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "No images provided")
	}
	if len(files) > s.policy.MaxFiles {
		return nil, shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("Too many files. Maximum is %d", s.policy.MaxFiles))
	}
	for _, f := range files {
		if f == nil || len(f.Data) == 0 {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "No image provided")
		}
		if _, err := s.check(f); err != nil {
			return nil, err
		}
	}

	uploaded := make([]UploadedImage, 0, len(files))
	for _, f := range files {
		img, err := s.Upload(ctx, f)
		if err != nil {
			for _, done := range uploaded {
				s.discard(ctx, productPrefix+done.Filename, thumbnailPrefix+done.Filename)
			}
			return nil, err
		}
		uploaded = append(uploaded, *img)
	}
	return uploaded, nil
}

// Delete removes an image and its thumbnail
func (s *UploadService) Delete(ctx context.Context, filename string) error {
	if err := validateFilename(filename); err != nil {
		return err
	}
	for _, key := range []string{productPrefix + filename, thumbnailPrefix + filename} {
		if err := s.storage.Delete(ctx, key); err != nil {
			return fmt.Errorf("failed to delete %s: %w", key, err)
		}
	}
	s.logger.Info("Image deleted", zap.String("filename", filename))
	return nil
}

// discard removes keys stored by a failed upload, logging what it cannot remove
func (s *UploadService) discard(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := s.storage.Delete(ctx, key); err != nil {
			s.logger.Warn("Failed to remove orphaned image", zap.String("key", key), zap.Error(err))
		}
	}
}

// check enforces the size limit and sniffs the content type
func (s *UploadService) check(file *File) (string, error) {
	size := file.Size
	if size < int64(len(file.Data)) {
		size = int64(len(file.Data))
	}
	if size > s.policy.MaxSize {
		return "", shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("File too large. Maximum size is %dMB", s.policy.MaxSize>>20))
	}

	contentType := http.DetectContentType(file.Data)
	if _, known := extensions[contentType]; !known || !slices.Contains(s.policy.AllowedTypes, contentType) {
		return "", shared.NewDomainError("VALIDATION_ERROR", "Only image files are allowed (jpeg, png, webp)")
	}
	return contentType, nil
}

func validateFilename(filename string) error {
	if filename == "" ||
		strings.ContainsAny(filename, `/\`) ||
		strings.Contains(filename, "..") ||
		path.Base(filename) != filename {
		return shared.NewDomainError("VALIDATION_ERROR", "Invalid filename")
	}
	return nil
}
