package storage

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Object identifies an uploaded file. PublicID is the key needed to destroy it.
type Object struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

// ObjectStore hosts images, audio and PDFs.
type ObjectStore interface {
	Upload(ctx context.Context, folder, filename, contentType string, data []byte) (Object, error)
	Destroy(ctx context.Context, publicID string) error
}

var ErrEmptyObject = errors.New("storage: empty object")

// objectKey builds a collision free key under folder keeping the file extension.
func objectKey(folder, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join(strings.Trim(folder, "/"), uuid.New().String()+ext)
}
