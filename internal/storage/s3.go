package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/BerylCAtieno/ask-relay/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Reader reads whole objects from a bucket.
type Reader interface {
	Download(ctx context.Context, key string) ([]byte, error)
}

type s3Reader struct {
	client     *minio.Client
	bucketName string
}

// NewS3Reader builds a client for cfg. It does not touch the network, so a
// bucket that is unreachable at startup only shows up on the first read.
func NewS3Reader(cfg config.S3Config) (Reader, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	return &s3Reader{
		client:     client,
		bucketName: cfg.Bucket,
	}, nil
}

func (s *s3Reader) Download(ctx context.Context, key string) ([]byte, error) {
	object, err := s.client.GetObject(ctx, s.bucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object from S3: %w", err)
	}
	defer object.Close()

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(object); err != nil {
		return nil, fmt.Errorf("failed to read object %s/%s: %w", s.bucketName, key, err)
	}

	return buf.Bytes(), nil
}
