package storage

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"github.com/local/studyguide/internal/config"
)

// S3Client fetches source documents from S3 or an S3-compatible store.
type S3Client struct {
	client *s3.Client
}

// NewS3Client creates a new S3 client. Static credentials and a custom
// endpoint are used when configured; otherwise the default AWS chain applies.
func NewS3Client(ctx context.Context, c config.S3Config) (*S3Client, error) {
	var opts []func(*awscfg.LoadOptions) error
	if c.Region != "" {
		opts = append(opts, awscfg.WithRegion(c.Region))
	}
	if c.AccessKeyID != "" && c.SecretAccessKey != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKeyID, c.SecretAccessKey, "")))
	}
	cfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	cli := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Client{client: cli}, nil
}

// ParseURL splits s3://bucket/key.
func ParseURL(s3url string) (bucket, key string, err error) {
	path := strings.TrimPrefix(s3url, "s3://")
	bucket, key, ok := strings.Cut(path, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 url: %s", s3url)
	}
	return bucket, key, nil
}

// DownloadToTemp downloads s3://bucket/key into a temp file ending in .pdf
// and returns its path. The caller removes it.
func (s *S3Client) DownloadToTemp(ctx context.Context, s3url string) (string, error) {
	bucket, key, err := ParseURL(s3url)
	if err != nil {
		return "", err
	}
	f, err := os.CreateTemp("", "s3pdf-*.pdf")
	if err != nil {
		return "", err
	}
	defer f.Close()

	n, err := manager.NewDownloader(s.client).Download(ctx, f, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("download %s: %w", s3url, err)
	}
	log.Info().Str("bucket", bucket).Str("key", key).Int64("bytes", n).Msg("downloaded s3 pdf to temp")
	return f.Name(), nil
}

// HeadBucket checks that bucket exists and is reachable with the configured credentials.
func (s *S3Client) HeadBucket(ctx context.Context, bucket string) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
	return err
}
