package blobstore

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sagarc03/tasker"
)

const (
	SignatureAlgorithm = "AWS4-HMAC-SHA256"
	MaxExpiresSeconds  = 604800 // 7 days
	DateTimeFormat     = "20060102T150405Z"
	DateFormat         = "20060102"
)

// Verifier checks AWS Signature V4 presigned URLs issued for one credential pair.
type Verifier struct {
	Region    string
	Service   string
	AccessKey string
	SecretKey string

	now func() time.Time
}

// NewVerifier creates a Verifier for the "s3" service.
func NewVerifier(region, accessKey, secretKey string) *Verifier {
	return &Verifier{
		Region:    region,
		Service:   "s3",
		AccessKey: accessKey,
		SecretKey: secretKey,
		now:       time.Now,
	}
}

// VerifyRequest verifies the presigned query of r.
// Go keeps the Host header outside r.Header, so it is added back before
// the canonical headers are built.
func (v *Verifier) VerifyRequest(r *http.Request) error {
	headers := r.Header.Clone()
	headers.Set("Host", r.Host)
	return v.Verify(r.Method, r.URL.EscapedPath(), r.URL.Query(), headers)
}

// Verify verifies a presigned URL.
//
// Checks, in order: required parameters, algorithm, timestamp format, expiry
// range (1s to 7 days), expiry against the clock, credential scope (date,
// region, service), access key and finally the HMAC-SHA256 signature.
//
// Every failure wraps tasker.ErrUnauthorized.
func (v *Verifier) Verify(method, path string, query url.Values, headers http.Header) error {
	params, err := extractParams(query)
	if err != nil {
		return err
	}

	if err := v.validateParams(params); err != nil {
		return err
	}

	if !hmac.Equal([]byte(params.accessKey), []byte(v.AccessKey)) {
		return fmt.Errorf("invalid access key: %w", tasker.ErrUnauthorized)
	}

	expected := calculateSignature(v.SecretKey, method, path, query, headers, params)
	if !hmac.Equal([]byte(expected), []byte(params.signature)) {
		return fmt.Errorf("signature mismatch: %w", tasker.ErrUnauthorized)
	}

	return nil
}

type signatureParams struct {
	algorithm     string
	accessKey     string
	dateStamp     string
	region        string
	service       string
	requestTime   time.Time
	expires       int
	signedHeaders string
	signature     string
}

func extractParams(query url.Values) (*signatureParams, error) {
	amzAlgorithm := query.Get("X-Amz-Algorithm")
	amzCredential := query.Get("X-Amz-Credential")
	amzDate := query.Get("X-Amz-Date")
	amzExpires := query.Get("X-Amz-Expires")
	amzSignedHeaders := query.Get("X-Amz-SignedHeaders")
	amzSignature := query.Get("X-Amz-Signature")

	if amzAlgorithm == "" || amzCredential == "" || amzDate == "" ||
		amzExpires == "" || amzSignedHeaders == "" || amzSignature == "" {
		return nil, fmt.Errorf("missing required signature parameters: %w", tasker.ErrUnauthorized)
	}

	requestTime, err := time.Parse(DateTimeFormat, amzDate)
	if err != nil {
		return nil, fmt.Errorf("invalid X-Amz-Date format: %w", tasker.ErrUnauthorized)
	}

	expires, err := strconv.Atoi(amzExpires)
	if err != nil || expires <= 0 || expires > MaxExpiresSeconds {
		return nil, fmt.Errorf("invalid X-Amz-Expires: must be between 1 and %d: %w", MaxExpiresSeconds, tasker.ErrUnauthorized)
	}

	credParts := strings.Split(amzCredential, "/")
	if len(credParts) != 5 {
		return nil, fmt.Errorf("invalid X-Amz-Credential format: %w", tasker.ErrUnauthorized)
	}

	if credParts[4] != "aws4_request" {
		return nil, fmt.Errorf("invalid credential terminator: expected aws4_request: %w", tasker.ErrUnauthorized)
	}

	return &signatureParams{
		algorithm:     amzAlgorithm,
		accessKey:     credParts[0],
		dateStamp:     credParts[1],
		region:        credParts[2],
		service:       credParts[3],
		requestTime:   requestTime,
		expires:       expires,
		signedHeaders: amzSignedHeaders,
		signature:     amzSignature,
	}, nil
}

func (v *Verifier) validateParams(params *signatureParams) error {
	if params.algorithm != SignatureAlgorithm {
		return fmt.Errorf("invalid algorithm: expected %s, got %s: %w", SignatureAlgorithm, params.algorithm, tasker.ErrUnauthorized)
	}

	now := time.Now
	if v.now != nil {
		now = v.now
	}
	if now().After(params.requestTime.Add(time.Duration(params.expires) * time.Second)) {
		return fmt.Errorf("signature expired: %w", tasker.ErrUnauthorized)
	}

	if params.dateStamp != params.requestTime.Format(DateFormat) {
		return fmt.Errorf("credential date mismatch: %w", tasker.ErrUnauthorized)
	}

	if params.region != v.Region {
		return fmt.Errorf("region mismatch: expected %s, got %s: %w", v.Region, params.region, tasker.ErrUnauthorized)
	}

	if params.service != v.Service {
		return fmt.Errorf("service mismatch: expected %s, got %s: %w", v.Service, params.service, tasker.ErrUnauthorized)
	}

	return nil
}

func calculateSignature(secretKey, method, path string, query url.Values, headers http.Header, p *signatureParams) string {
	canonicalRequest := buildCanonicalRequest(method, path, query, headers, p.signedHeaders)

	credentialScope := fmt.Sprintf("%s/%s/%s/aws4_request", p.dateStamp, p.region, p.service)
	stringToSign := fmt.Sprintf("%s\n%s\n%s\n%s",
		SignatureAlgorithm,
		p.requestTime.Format(DateTimeFormat),
		credentialScope,
		sha256Hash(canonicalRequest),
	)

	signingKey := deriveSigningKey(secretKey, p.dateStamp, p.region, p.service)
	return hex.EncodeToString(hmacSHA256(signingKey, []byte(stringToSign)))
}

func buildCanonicalRequest(method, path string, query url.Values, headers http.Header, signedHeaders string) string {
	return fmt.Sprintf("%s\n%s\n%s\n%s\n%s\n%s",
		method,
		path,
		buildCanonicalQueryString(query),
		buildCanonicalHeaders(headers, signedHeaders),
		signedHeaders,
		"UNSIGNED-PAYLOAD",
	)
}

// buildCanonicalHeaders formats the signed headers as sorted "name:value\n" lines.
func buildCanonicalHeaders(headers http.Header, signedHeaders string) string {
	headerNames := strings.Split(signedHeaders, ";")
	sort.Strings(headerNames)

	var result strings.Builder
	for _, name := range headerNames {
		result.WriteString(name)
		result.WriteString(":")
		result.WriteString(strings.TrimSpace(headers.Get(name)))
		result.WriteString("\n")
	}
	return result.String()
}

// buildCanonicalQueryString encodes every parameter except the signature,
// sorted by key, with RFC 3986 escaping.
func buildCanonicalQueryString(query url.Values) string {
	keys := make([]string, 0, len(query))
	for k := range query {
		if k != "X-Amz-Signature" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		values := append([]string(nil), query[k]...)
		sort.Strings(values)
		for _, val := range values {
			parts = append(parts, awsEscape(k)+"="+awsEscape(val))
		}
	}
	return strings.Join(parts, "&")
}

func awsEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func deriveSigningKey(secretKey, dateStamp, region, service string) []byte {
	kDate := hmacSHA256([]byte("AWS4"+secretKey), []byte(dateStamp))
	kRegion := hmacSHA256(kDate, []byte(region))
	kService := hmacSHA256(kRegion, []byte(service))
	return hmacSHA256(kService, []byte("aws4_request"))
}

func hmacSHA256(key, data []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(data)
	return h.Sum(nil)
}

func sha256Hash(data string) string {
	h := sha256.Sum256([]byte(data))
	return hex.EncodeToString(h[:])
}
