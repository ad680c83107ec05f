package archive

import (
	"bytes"
	"context"
	"path"

	"github.com/minio/minio-go/v7"

	"github.com/primeshield/primeshield/internal/resource"
)

// MinioStore implements Store for MinIO and other S3-compatible object
// storage reachable without AWS credentials chains.
type MinioStore struct {
	client *minio.Client
	bucket string
	prefix string
	rc     *resource.Controller
}

// NewMinioStore creates a MinIO-backed store.
func NewMinioStore(client *minio.Client, bucket, rootPrefix string, rc *resource.Controller) *MinioStore {
	return &MinioStore{
		client: client,
		bucket: bucket,
		prefix: rootPrefix,
		rc:     rc,
	}
}

func (s *MinioStore) key(name string) string {
	return path.Join(s.prefix, name)
}

// Put uploads the artifact through the IO limiter.
func (s *MinioStore) Put(ctx context.Context, name string, data []byte) error {
	if err := s.rc.AcquireIO(ctx, len(data)); err != nil {
		return err
	}

	_, err := s.client.PutObject(ctx, s.bucket, s.key(name),
		bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	return err
}
