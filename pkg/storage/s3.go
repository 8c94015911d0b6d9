package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/user/bugbounty-agent/pkg/engine"
)

const (
	uploadAttempts = 3
	uploadBackoff  = 200 * time.Millisecond
)

// S3Sink uploads reports to an S3-compatible bucket
type S3Sink struct {
	mc     *minio.Client
	Bucket string
	Prefix string
}

func NewS3Sink(endpoint, accessKey, secretKey string, useSSL bool, bucket string) (*S3Sink, error) {
	if endpoint == "" || bucket == "" {
		return nil, fmt.Errorf("s3 endpoint and bucket are required")
	}
	mc, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &S3Sink{mc: mc, Bucket: bucket, Prefix: "reports"}, nil
}

// Key is the object key for a report
func (s *S3Sink) Key(r *engine.Report) string {
	return path.Join(s.Prefix, r.Timestamp.Format("2006/01/02"), r.ScanID+".json")
}

func (s *S3Sink) Store(ctx context.Context, r *engine.Report) (string, error) {
	data, err := Encode(r)
	if err != nil {
		return "", err
	}

	if err := retry(ctx, uploadAttempts, uploadBackoff, func() error {
		exists, err := s.mc.BucketExists(ctx, s.Bucket)
		if err != nil {
			return err
		}
		if !exists {
			return s.mc.MakeBucket(ctx, s.Bucket, minio.MakeBucketOptions{})
		}
		return nil
	}); err != nil {
		return "", fmt.Errorf("failed to prepare bucket %s: %w", s.Bucket, err)
	}

	key := s.Key(r)
	err = retry(ctx, uploadAttempts, uploadBackoff, func() error {
		_, err := s.mc.PutObject(ctx, s.Bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
			ContentType: "application/json",
		})
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload report: %w", err)
	}
	return fmt.Sprintf("s3://%s/%s", s.Bucket, key), nil
}
