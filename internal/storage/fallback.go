package storage

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog"
)

// fallbackStore writes to primary and reads from primary, then secondary.
// It lets a deployment move to S3 while images uploaded to disk earlier
// remain reachable.
type fallbackStore struct {
	primary   ImageStore
	secondary ImageStore
	logger    zerolog.Logger
}

// NewFallbackStore combines two stores.
func NewFallbackStore(primary, secondary ImageStore, logger zerolog.Logger) ImageStore {
	return &fallbackStore{
		primary:   primary,
		secondary: secondary,
		logger:    logger.With().Str("component", "fallback-image-store").Logger(),
	}
}

func (s *fallbackStore) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	return s.primary.Save(ctx, originalName, r)
}

func (s *fallbackStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	rc, err := s.primary.Open(ctx, name)
	if err == nil {
		return rc, nil
	}
	if errors.Is(err, ErrInvalidName) {
		return nil, err
	}

	s.logger.Debug().Err(err).Str("name", name).Msg("primary store miss, trying secondary")
	return s.secondary.Open(ctx, name)
}

func (s *fallbackStore) Delete(ctx context.Context, name string) error {
	return errors.Join(s.primary.Delete(ctx, name), s.secondary.Delete(ctx, name))
}
