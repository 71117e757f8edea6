package objectstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const defaultRegion = "us-east-1"

// S3Config configures an S3Signer.
type S3Config struct {
	Bucket string
	Region string
	// Endpoint overrides the AWS endpoint, e.g. for MinIO or the local blobstore.
	Endpoint     string
	UsePathStyle bool
	// AccessKey and SecretKey are optional; without them the default AWS
	// credential chain is used.
	AccessKey string
	SecretKey string
}

// S3Signer presigns PUT requests against an S3 bucket.
type S3Signer struct {
	presign  *s3.PresignClient
	bucket   string
	endpoint string
}

// NewS3Signer builds a presign client from cfg.
func NewS3Signer(ctx context.Context, cfg S3Config) (*S3Signer, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("new s3 signer: bucket is required")
	}

	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("new s3 signer: load config: %w", err)
	}

	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &S3Signer{
		presign:  s3.NewPresignClient(client),
		bucket:   cfg.Bucket,
		endpoint: endpoint,
	}, nil
}

// PresignPut returns a SigV4 query-signed PUT URL for key.
func (s *S3Signer) PresignPut(ctx context.Context, key string, expires time.Duration) (string, error) {
	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("presign put %s: %w", key, err)
	}
	return req.URL, nil
}

// PublicURL returns the unsigned object URL.
func (s *S3Signer) PublicURL(key string) string {
	if s.endpoint != "" {
		return s.endpoint + "/" + s.bucket + "/" + escapeKey(key)
	}
	return "https://" + s.bucket + ".s3.amazonaws.com/" + escapeKey(key)
}
