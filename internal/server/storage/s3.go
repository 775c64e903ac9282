package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	sc "github.com/winelog/winelog/internal/server/config"
)

// s3API is the subset of *s3.Client used by S3Store; narrowed for testing.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store stores normalized images in an S3-compatible bucket and serves
// them through a public base URL.
type S3Store struct {
	client        s3API
	bucket        string
	publicBaseURL string
	now           func() time.Time
}

// NewS3Store builds an S3 client from server config and wraps it in a store.
func NewS3Store(ctx context.Context, cfg *sc.Config) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
	})

	return &S3Store{
		client:        client,
		bucket:        cfg.S3Bucket,
		publicBaseURL: cfg.S3PublicBaseURL,
		now:           time.Now,
	}, nil
}

// Put normalizes the image and uploads it under a slot-specific prefix.
// Stored objects are immutable, so they get a one-year cache lifetime.
func (s *S3Store) Put(ctx context.Context, data []byte, prefix string) (string, string, error) {
	normalized, err := normalizeImage(data)
	if err != nil {
		return "", "", err
	}

	key := objectKey(prefix, s.now())

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(normalized),
		ContentType:  aws.String("image/jpeg"),
		CacheControl: aws.String("max-age=31536000"),
	})
	if err != nil {
		return "", "", fmt.Errorf("s3 put %q: %w", key, err)
	}

	return key, publicURL(s.publicBaseURL, key), nil
}

// Remove deletes an object by key. Used to compensate uploads when the
// diary-creation transaction fails.
func (s *S3Store) Remove(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %q: %w", key, err)
	}
	return nil
}

// KeyFromURL strips the public base URL off a stored image URL.
func (s *S3Store) KeyFromURL(url string) (string, bool) {
	base := strings.TrimRight(s.publicBaseURL, "/") + "/"
	key, ok := strings.CutPrefix(url, base)
	if !ok || key == "" {
		return "", false
	}
	return key, true
}
