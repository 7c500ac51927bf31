package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/baechuer/course-feedback/internal/config"
	"github.com/baechuer/course-feedback/internal/logger"
)

// S3PictureStore uploads profile pictures to an S3 compatible bucket
// (MinIO, R2, AWS).
type S3PictureStore struct {
	client   *s3.Client
	bucket   string
	endpoint string
	cdnBase  string
}

func NewS3PictureStore(ctx context.Context, cfg *config.Config) (*S3PictureStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKeyID,
			cfg.S3SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		}
		o.UsePathStyle = cfg.S3UsePathStyle
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})

	return &S3PictureStore{
		client:   client,
		bucket:   cfg.S3Bucket,
		endpoint: strings.TrimRight(cfg.S3Endpoint, "/"),
		cdnBase:  strings.TrimRight(cfg.CDNBaseURL, "/"),
	}, nil
}

// Put stores the object and returns its public URL.
func (s *S3PictureStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	in := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if size > 0 {
		in.ContentLength = aws.Int64(size)
	}
	if _, err := s.client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	logger.WithCtx(ctx).Debug().Str("bucket", s.bucket).Str("key", key).Int64("size", size).Msg("profile picture stored")
	return s.PublicURL(key), nil
}

// EnsureBucket creates the bucket when HeadBucket fails.
func (s *S3PictureStore) EnsureBucket(ctx context.Context) error {
	if _, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)}); err == nil {
		return nil
	}
	logger.Logger.Info().Str("bucket", s.bucket).Msg("creating bucket")
	if _, err := s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)}); err != nil {
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	return nil
}

// PublicURL prefers the CDN base and falls back to a path-style endpoint URL.
func (s *S3PictureStore) PublicURL(key string) string {
	if s.cdnBase != "" {
		return s.cdnBase + "/" + key
	}
	return s.endpoint + "/" + s.bucket + "/" + key
}
