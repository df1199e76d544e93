package seed

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-faster/errors"
	"github.com/rs/zerolog"
)

const s3Scheme = "s3://"

// Source opens seed files by location.
type Source interface {
	Open(ctx context.Context, location string) (io.ReadCloser, error)
}

// fileSource reads seed files from the local file system.
type fileSource struct {
	logger zerolog.Logger
}

// NewFileSource creates a source reading local paths.
func NewFileSource(logger zerolog.Logger) Source {
	return &fileSource{logger: logger.With().Str("component", "file-source").Logger()}
}

func (s *fileSource) Open(_ context.Context, location string) (io.ReadCloser, error) {
	f, err := os.Open(location)
	if err != nil {
		s.logger.Error().Err(err).Str("file", location).Msg("failed to open seed file")
		return nil, errors.Wrapf(err, "open %s", location)
	}
	return f, nil
}

// s3Source reads seed files given as s3://bucket/key.
type s3Source struct {
	client *s3.Client
	logger zerolog.Logger
}

// NewS3Source creates a source backed by the default AWS credential chain.
func NewS3Source(ctx context.Context, region string, logger zerolog.Logger) (Source, error) {
	logger = logger.With().Str("component", "s3-source").Logger()

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, errors.Wrap(err, "load AWS configuration")
	}

	logger.Info().Str("region", region).Msg("S3 seed source initialised")
	return &s3Source{client: s3.NewFromConfig(cfg), logger: logger}, nil
}

func (s *s3Source) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	bucket, key, err := ParseS3Location(location)
	if err != nil {
		return nil, err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("bucket", bucket).
			Str("key", key).
			Msg("failed to get object from S3")
		return nil, errors.Wrapf(err, "get s3 object (bucket=%s, key=%s)", bucket, key)
	}
	return out.Body, nil
}

// routedSource sends s3:// locations to the S3 source and everything else to
// the local file system.
type routedSource struct {
	files Source
	s3    Source
}

// NewRoutedSource combines a file source with an optional S3 source. A nil
// s3 source rejects s3:// locations.
func NewRoutedSource(files, s3 Source) Source {
	return &routedSource{files: files, s3: s3}
}

func (s *routedSource) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	if !IsS3Location(location) {
		return s.files.Open(ctx, location)
	}
	if s.s3 == nil {
		return nil, errors.Errorf("%s: S3 source is not configured", location)
	}
	return s.s3.Open(ctx, location)
}

// IsS3Location reports whether location is an s3:// URL.
func IsS3Location(location string) bool {
	return strings.HasPrefix(location, s3Scheme)
}

// ParseS3Location splits s3://bucket/key.
func ParseS3Location(location string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(location, s3Scheme)
	if !ok {
		return "", "", errors.Errorf("%s is not an s3:// location", location)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", errors.Errorf("%s: expected s3://bucket/key", location)
	}
	return bucket, key, nil
}
