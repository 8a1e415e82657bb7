package service

import (
	"context"
	"fmt"
	"io"

	"muontra/internal/logger"
	"muontra/internal/storage"
)

type imageStorageService struct {
	store storage.ImageStore
}

func NewImageStorageService(store storage.ImageStore) ImageService {
	return &imageStorageService{store: store}
}

// UploadImage stores an item picture for an owner and returns its key and public URL.
func (s *imageStorageService) UploadImage(ctx context.Context, actor Actor, contentType string, r io.Reader) (string, string, error) {
	logger.EnterMethod("imageStorageService.UploadImage", "accountID", actor.AccountID, "contentType", contentType)

	if !actor.Anonymous() && !actor.Role.IsOwner() {
		logger.ExitMethodWithError("imageStorageService.UploadImage", ErrForbidden)
		return "", "", ErrForbidden
	}

	key, err := s.store.Save(ctx, contentType, r)
	if err != nil {
		logger.ExitMethodWithError("imageStorageService.UploadImage", err)
		return "", "", fmt.Errorf("failed to save image: %w", err)
	}

	url := s.store.URL(key)
	logger.ExitMethod("imageStorageService.UploadImage", "key", key)
	return key, url, nil
}

func (s *imageStorageService) OpenImage(ctx context.Context, key string) (io.ReadCloser, string, error) {
	return s.store.Open(ctx, key)
}
