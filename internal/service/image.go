package service

import (
	"context"
	"strings"
	"time"

	"github.com/pageza/pantrychef/backend/internal/logging"
)

// Presigner issues temporary URLs for stored objects. *config.S3Config implements it.
type Presigner interface {
	GeneratePresignedURL(ctx context.Context, objectKey string, expiration time.Duration) (string, error)
}

// ImageService turns recipe image references into URLs clients can load
type ImageService struct {
	presigner Presigner
	ttl       time.Duration
}

// NewImageService creates a new ImageService. A nil presigner passes
// references through unchanged.
func NewImageService(presigner Presigner, ttl time.Duration) *ImageService {
	return &ImageService{presigner: presigner, ttl: ttl}
}

// ResolveURL returns ref unchanged when it is already absolute, and a
// presigned URL when it is an object key. Presigning failures yield "".
func (s *ImageService) ResolveURL(ctx context.Context, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	if s == nil || s.presigner == nil {
		return ref
	}

	url, err := s.presigner.GeneratePresignedURL(ctx, strings.TrimPrefix(ref, "/"), s.ttl)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("object_key", ref).Msg("failed to presign recipe image")
		return ""
	}
	return url
}
