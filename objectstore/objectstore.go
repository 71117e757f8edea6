package objectstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/sagarc03/tasker"
)

// Supported backends.
const (
	BackendS3     = "s3"
	BackendStowry = "stowry"
	BackendLocal  = "local"
)

// Config selects and configures a signer.
type Config struct {
	Backend      string
	Bucket       string
	Region       string
	Endpoint     string
	UsePathStyle bool
	AccessKey    string
	SecretKey    string
}

// New returns the signer for cfg.Backend. The local backend signs S3 style
// URLs against Endpoint, which should point at the tasker server itself.
func New(ctx context.Context, cfg Config) (tasker.URLSigner, error) {
	var (
		signer tasker.URLSigner
		err    error
	)
	switch cfg.Backend {
	case BackendS3:
		signer, err = NewS3Signer(ctx, S3Config{
			Bucket:       cfg.Bucket,
			Region:       cfg.Region,
			Endpoint:     cfg.Endpoint,
			UsePathStyle: cfg.UsePathStyle,
			AccessKey:    cfg.AccessKey,
			SecretKey:    cfg.SecretKey,
		})
	case BackendLocal:
		if cfg.Endpoint == "" {
			return nil, errors.New("new signer: local backend requires an endpoint")
		}
		signer, err = NewS3Signer(ctx, S3Config{
			Bucket:       cfg.Bucket,
			Region:       cfg.Region,
			Endpoint:     cfg.Endpoint,
			UsePathStyle: true,
			AccessKey:    cfg.AccessKey,
			SecretKey:    cfg.SecretKey,
		})
	case BackendStowry:
		signer, err = NewStowrySigner(StowryConfig{
			Endpoint:  cfg.Endpoint,
			Bucket:    cfg.Bucket,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
		})
	default:
		return nil, fmt.Errorf("new signer: unsupported backend: %s", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return signer, nil
}

// escapeKey percent-encodes each path segment of an object key.
func escapeKey(key string) string {
	segments := strings.Split(strings.TrimPrefix(key, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
