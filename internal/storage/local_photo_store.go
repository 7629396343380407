package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

type LocalPhotoStore struct {
	root string
}

func NewLocalPhotoStore(root string) (*LocalPhotoStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create photo directory: %w", err)
	}
	return &LocalPhotoStore{root: root}, nil
}

func (store *LocalPhotoStore) path(key string) (string, error) {
	if err := validatePhotoKey(key); err != nil {
		return "", err
	}
	return filepath.Join(store.root, filepath.FromSlash(key)), nil
}

// Put writes through a temporary file so readers never see partial photos.
func (store *LocalPhotoStore) Put(ctx context.Context, key string, body io.Reader, size int64) error {
	target, err := store.path(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create photo directory: %w", err)
	}

	temp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp photo: %w", err)
	}
	tempName := temp.Name()
	defer func() {
		_ = os.Remove(tempName)
	}()

	written, err := io.Copy(temp, io.LimitReader(body, MaxPhotoBytes+1))
	if closeErr := temp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("write photo: %w", err)
	}
	if written > MaxPhotoBytes || (size >= 0 && written != size) {
		return fmt.Errorf("write photo: unexpected size %d", written)
	}
	if err := os.Rename(tempName, target); err != nil {
		return fmt.Errorf("store photo: %w", err)
	}
	return nil
}

func (store *LocalPhotoStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	target, err := store.path(key)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(target)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrPhotoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open photo: %w", err)
	}
	return file, nil
}

func (store *LocalPhotoStore) Delete(_ context.Context, key string) error {
	target, err := store.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete photo: %w", err)
	}
	return nil
}
