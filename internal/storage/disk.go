package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// diskStore keeps images under <root>/images/products.
type diskStore struct {
	dir    string
	logger zerolog.Logger
}

// NewDiskStore creates a local file system image store rooted at root.
func NewDiskStore(root string, logger zerolog.Logger) (ImageStore, error) {
	dir := filepath.Join(root, filepath.FromSlash(Folder))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory %s: %w", dir, err)
	}
	return &diskStore{
		dir:    dir,
		logger: logger.With().Str("component", "disk-image-store").Logger(),
	}, nil
}

func (s *diskStore) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	name := GenerateName(originalName)
	target := filepath.Join(s.dir, name)

	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(target)
		return "", fmt.Errorf("failed to write image file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(target)
		return "", fmt.Errorf("failed to close image file: %w", err)
	}

	s.logger.Debug().Str("name", name).Msg("image saved")
	return name, nil
}

func (s *diskStore) Open(_ context.Context, name string) (io.ReadCloser, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return f, nil
}

func (s *diskStore) Delete(_ context.Context, name string) error {
	if err := validName(name); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Error().Err(err).Str("name", name).Msg("failed to delete image")
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}
