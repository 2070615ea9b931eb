package s3

import (
	"context"
	"errors"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/beetlebugorg/maplabels/pkg/assets"
)

// API is the subset of the S3 client used by Store.
type API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Store implements assets.Store for S3.
type Store struct {
	client API
	bucket string
	prefix string
}

// NewStore creates a new S3 asset store.
// rootPrefix is prepended to all names (e.g. "images/labelsTextures").
func NewStore(client API, bucket, rootPrefix string) *Store {
	return &Store{
		client: client,
		bucket: bucket,
		prefix: rootPrefix,
	}
}

// NewClient builds an S3 client from the default AWS configuration chain
// (environment, shared config, instance role).
func NewClient(ctx context.Context, region string) (*s3.Client, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(cfg), nil
}

func (s *Store) key(name string) string {
	return path.Join(s.prefix, name)
}

// Open fetches an asset.
func (s *Store) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, assets.ErrNotFound
		}
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return nil, assets.ErrNotFound
		}
		return nil, err
	}
	return resp.Body, nil
}
