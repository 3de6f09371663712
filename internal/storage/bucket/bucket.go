package bucket

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/drakos74/devcluster/internal/storage"
	"github.com/rs/zerolog/log"
)

const defaultTimeout = 30 * time.Second

// Client is the part of the s3 api the storage needs.
type Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Storage keeps json documents as objects of a bucket.
type Storage struct {
	client  Client
	bucket  string
	prefix  string
	timeout time.Duration
}

// New creates a storage for the given bucket with the default aws credential chain.
func New(ctx context.Context, bucket, prefix, region string) (*Storage, error) {
	opts := make([]func(*config.LoadOptions) error, 0)
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("could not load aws config: %w", err)
	}
	return NewWithClient(s3.NewFromConfig(cfg), bucket, prefix), nil
}

// NewWithClient creates a storage on top of an existing client.
func NewWithClient(client Client, bucket, prefix string) *Storage {
	return &Storage{
		client:  client,
		bucket:  bucket,
		prefix:  prefix,
		timeout: defaultTimeout,
	}
}

func (s *Storage) object(k storage.Key) string {
	return path.Join(s.prefix, fmt.Sprintf("%s.json", k.Path()))
}

func (s *Storage) Store(k storage.Key, value interface{}) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("could not encode value for '%s': %w", k.Path(), err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	key := s.object(k)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(b),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("could not put object 's3://%s/%s': %w", s.bucket, key, err)
	}
	log.Debug().Str("bucket", s.bucket).Str("key", key).Int("bytes", len(b)).Msg("stored object")
	return nil
}

func (s *Storage) Load(k storage.Key, value interface{}) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	key := s.object(k)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var missing *types.NoSuchKey
		if errors.As(err, &missing) {
			return fmt.Errorf("object 's3://%s/%s': %w", s.bucket, key, storage.NotFoundErr)
		}
		return fmt.Errorf("could not get object 's3://%s/%s': %s: %w", s.bucket, key, err.Error(), storage.CouldNotLoadErr)
	}
	defer out.Body.Close()

	b, err := io.ReadAll(out.Body)
	if err != nil {
		return fmt.Errorf("could not read object 's3://%s/%s': %s: %w", s.bucket, key, err.Error(), storage.CouldNotLoadErr)
	}
	if err := json.Unmarshal(b, value); err != nil {
		return fmt.Errorf("could not unmarshal object 's3://%s/%s': %s: %w", s.bucket, key, err.Error(), storage.CouldNotLoadErr)
	}
	return nil
}
