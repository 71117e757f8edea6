package objectstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	stowry "github.com/sagarc03/stowry-go"
)

// StowryConfig configures a StowrySigner.
type StowryConfig struct {
	Endpoint string
	// Bucket is used as a path prefix; stowry has no bucket concept.
	Bucket    string
	AccessKey string
	SecretKey string
}

// StowrySigner presigns PUT requests with the stowry native scheme.
type StowrySigner struct {
	endpoint  string
	prefix    string
	accessKey string
	secretKey string
	now       func() time.Time
}

// NewStowrySigner validates cfg and returns a signer.
func NewStowrySigner(cfg StowryConfig) (*StowrySigner, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("new stowry signer: endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("new stowry signer: access key and secret key are required")
	}

	prefix := strings.Trim(cfg.Bucket, "/")
	if prefix != "" {
		prefix = "/" + prefix
	}

	return &StowrySigner{
		endpoint:  strings.TrimRight(cfg.Endpoint, "/"),
		prefix:    prefix,
		accessKey: cfg.AccessKey,
		secretKey: cfg.SecretKey,
		now:       time.Now,
	}, nil
}

func (s *StowrySigner) objectPath(key string) string {
	return s.prefix + "/" + strings.TrimPrefix(key, "/")
}

// PresignPut returns a signed PUT URL for key valid for expires.
func (s *StowrySigner) PresignPut(_ context.Context, key string, expires time.Duration) (string, error) {
	seconds := int64(expires / time.Second)
	if seconds <= 0 {
		return "", fmt.Errorf("presign put %s: expiry must be at least one second", key)
	}

	path := s.objectPath(key)
	timestamp := s.now().Unix()
	sig := stowry.Sign(s.secretKey, http.MethodPut, path, timestamp, seconds)

	query := url.Values{}
	query.Set(stowry.StowryCredentialParam, s.accessKey)
	query.Set(stowry.StowryDateParam, strconv.FormatInt(timestamp, 10))
	query.Set(stowry.StowryExpiresParam, strconv.FormatInt(seconds, 10))
	query.Set(stowry.StowrySignatureParam, sig)

	return s.PublicURL(key) + "?" + query.Encode(), nil
}

// PublicURL returns the unsigned object URL.
func (s *StowrySigner) PublicURL(key string) string {
	return s.endpoint + s.prefix + "/" + escapeKey(key)
}
