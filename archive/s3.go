package archive

import (
	"bytes"
	"context"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/primeshield/primeshield/internal/resource"
)

// S3Store implements Store for S3.
type S3Store struct {
	uploader *manager.Uploader
	bucket   string
	prefix   string
	rc       *resource.Controller
}

// NewS3Store creates an S3-backed store. rootPrefix is prepended to all
// artifact names (e.g. "runs/2026-08/").
func NewS3Store(client *s3.Client, bucket, rootPrefix string, rc *resource.Controller) *S3Store {
	return &S3Store{
		uploader: manager.NewUploader(client),
		bucket:   bucket,
		prefix:   rootPrefix,
		rc:       rc,
	}
}

// NewS3StoreFromEnv builds the S3 client from the default AWS config
// chain (environment, shared config, instance role).
func NewS3StoreFromEnv(ctx context.Context, bucket, rootPrefix string, rc *resource.Controller) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return NewS3Store(s3.NewFromConfig(cfg), bucket, rootPrefix, rc), nil
}

func (s *S3Store) key(name string) string {
	return path.Join(s.prefix, name)
}

// Put uploads the artifact through the IO limiter.
func (s *S3Store) Put(ctx context.Context, name string, data []byte) error {
	if err := s.rc.AcquireIO(ctx, len(data)); err != nil {
		return err
	}

	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
		Body:   bytes.NewReader(data),
	})
	return err
}
