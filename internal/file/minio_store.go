package file

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

const objectPrefix = "files/"

// ObjectName is the object store key holding a record's content.
func ObjectName(id uuid.UUID) string {
	return objectPrefix + id.String()
}

// MinIOStore keeps record content as objects in a single MinIO bucket.
type MinIOStore struct {
	client *minio.Client
	bucket string
}

// NewMinIOStore constructs an adapter.
func NewMinIOStore(client *minio.Client, bucket string) *MinIOStore {
	return &MinIOStore{client: client, bucket: bucket}
}

// Put writes the content of a record, replacing any previous object.
func (s *MinIOStore) Put(ctx context.Context, id uuid.UUID, data []byte, mediaType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, ObjectName(id), bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: mediaType,
	})
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}

// Get reads the whole content of a record.
func (s *MinIOStore) Get(ctx context.Context, id uuid.UUID) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, ObjectName(id), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object: %w", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("read object: %w", err)
	}
	return data, nil
}

// Remove deletes the content of a record.
func (s *MinIOStore) Remove(ctx context.Context, id uuid.UUID) error {
	if err := s.client.RemoveObject(ctx, s.bucket, ObjectName(id), minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object: %w", err)
	}
	return nil
}
