// Package s3 implements the ObjectStore port on AWS S3.
package s3

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	apperrors "github.com/juun0-h/korean-english-oral-test-data-analysis/internal/errors"
)

// Store is an S3-backed ObjectStore scoped to one bucket.
type Store struct {
	client *s3.Client
	bucket string
}

// New builds a Store from the default AWS credential chain.
func New(ctx context.Context, region, bucket string) (*Store, error) {
	if bucket == "" {
		return nil, apperrors.ConfigInvalid("s3 bucket name is required")
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, apperrors.StorageError("failed to load AWS configuration", err)
	}
	return &Store{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
	}, nil
}

// NewWithClient wires an existing client, used by local-stack style setups.
func NewWithClient(client *s3.Client, bucket string) *Store {
	return &Store{client: client, bucket: bucket}
}

// List pages through every key beneath the prefix.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, apperrors.StorageError("failed to list objects", err)
		}
		for _, obj := range page.Contents {
			if obj.Key != nil {
				keys = append(keys, *obj.Key)
			}
		}
	}
	return keys, nil
}

// Get reads one object in full.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, apperrors.TransientFetch(key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, apperrors.TransientFetch(key, err)
	}
	return data, nil
}

// Exists reports object presence via a head request.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, apperrors.StorageError("failed to check object existence", err)
	}
	return true, nil
}

// Put writes an object at the key.
func (s *Store) Put(ctx context.Context, key string, body []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(body),
	})
	if err != nil {
		return apperrors.StorageError("failed to upload object", err)
	}
	return nil
}
