package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"bookvault/internal/storage"
)

// Upload is a file received with a request.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// uploadImage normalises an image upload and stores it under folder.
func uploadImage(ctx context.Context, store storage.ObjectStore, folder string, up *Upload) (storage.Object, error) {
	data, name, contentType, err := storage.PrepareImage(up.Data, up.Filename)
	if err != nil {
		if errors.Is(err, storage.ErrNotAnImage) {
			return storage.Object{}, ErrNotAnImage
		}
		return storage.Object{}, err
	}
	obj, err := store.Upload(ctx, folder, name, contentType, data)
	if err != nil {
		return storage.Object{}, fmt.Errorf("upload image: %w", err)
	}
	return obj, nil
}

// uploadFile stores up unchanged under folder.
func uploadFile(ctx context.Context, store storage.ObjectStore, folder string, up *Upload) (storage.Object, error) {
	if len(up.Data) == 0 {
		return storage.Object{}, Validation("Uploaded file %q is empty", up.Filename)
	}
	obj, err := store.Upload(ctx, folder, up.Filename, up.ContentType, up.Data)
	if err != nil {
		return storage.Object{}, fmt.Errorf("upload file: %w", err)
	}
	return obj, nil
}

// destroyQuietly removes stored media that is no longer referenced. Failures
// only leave an orphaned object behind, so they are logged and ignored.
func destroyQuietly(ctx context.Context, store storage.ObjectStore, log *zap.Logger, publicIDs ...string) {
	for _, id := range publicIDs {
		if id == "" {
			continue
		}
		if err := store.Destroy(ctx, id); err != nil {
			log.Warn("failed to destroy stored object", zap.String("publicId", id), zap.Error(err))
		}
	}
}
