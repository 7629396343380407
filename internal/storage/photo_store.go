package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

const MaxPhotoBytes = 5 << 20

var (
	ErrPhotoNotFound      = errors.New("photo not found")
	ErrPhotoKeyInvalid    = errors.New("photo key invalid")
	ErrPhotoTypeForbidden = errors.New("photo type forbidden")
)

var photoContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".heic": "image/heic",
	".webp": "image/webp",
}

// PhotoStore keeps uploaded entry photos under slash-separated keys.
type PhotoStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// PhotoExtension returns the lower-cased extension of filename when it is an
// accepted photo format.
func PhotoExtension(filename string) (string, error) {
	ext := strings.ToLower(path.Ext(strings.TrimSpace(filename)))
	if _, ok := photoContentTypes[ext]; !ok {
		return "", ErrPhotoTypeForbidden
	}
	return ext, nil
}

func PhotoContentType(key string) string {
	if contentType, ok := photoContentTypes[strings.ToLower(path.Ext(key))]; ok {
		return contentType
	}
	return "application/octet-stream"
}

// NewPhotoKey builds users/<id>/<yyyy>/<mm>/<uuid><ext>.
func NewPhotoKey(userID uint, now time.Time, ext string) string {
	return fmt.Sprintf("users/%d/%04d/%02d/%s%s", userID, now.Year(), int(now.Month()), uuid.NewString(), ext)
}

func validatePhotoKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return ErrPhotoKeyInvalid
	}
	if path.Clean(key) != key {
		return ErrPhotoKeyInvalid
	}
	for _, segment := range strings.Split(key, "/") {
		if segment == ".." || segment == "." || segment == "" {
			return ErrPhotoKeyInvalid
		}
	}
	return nil
}
