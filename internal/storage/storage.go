// Package storage pushes product images to an object store and hands back
// their public URLs.
package storage

import (
	"context"
	"fmt"

	"productapi/internal/upload"

	"github.com/google/uuid"
)

// KeyPrefix namespaces every product image key.
const KeyPrefix = "products/"

// ObjectStore stores bytes under a key and knows the public URL of that key.
type ObjectStore interface {
	// Put stores data as a new publicly readable object.
	Put(ctx context.Context, key string, data []byte, contentType string) error
	URL(key string) string
}

// StorageError reports a failed upload.
type StorageError struct {
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("failed to upload %s: %v", e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ImageUploader uploads admitted image files to an ObjectStore.
type ImageUploader struct {
	store  ObjectStore
	newKey func(ext string) string
}

// NewImageUploader creates a new ImageUploader.
func NewImageUploader(store ObjectStore) *ImageUploader {
	return &ImageUploader{
		store:  store,
		newKey: productKey,
	}
}

// productKey names a new object. ext comes from the sniffed type, never the
// client filename.
func productKey(ext string) string {
	return KeyPrefix + uuid.New().String() + ext
}

// Upload stores files one at a time and returns their URLs in input order.
// The first failure stops the batch; objects already stored are left in place.
func (u *ImageUploader) Upload(ctx context.Context, files []upload.File) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, f := range files {
		ext, ok := upload.Extension(f.MIMEType)
		if !ok {
			return nil, &upload.FileError{Name: f.Name, Reason: fmt.Sprintf("has unsupported type %q", f.MIMEType)}
		}
		key := u.newKey(ext)
		if err := u.store.Put(ctx, key, f.Data, f.MIMEType); err != nil {
			return nil, &StorageError{Key: key, Err: err}
		}
		urls = append(urls, u.store.URL(key))
	}
	return urls, nil
}
