package blobstore_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/tasker/blobstore"
	"github.com/sagarc03/tasker/objectstore"
)

const (
	testAccessKey = "AKIALOCAL"
	testSecretKey = "localsecret"
)

// newBucketServer serves one bucket the way the tasker server mounts it and
// returns an S3 signer pointed at it.
func newBucketServer(t *testing.T) (*httptest.Server, *objectstore.S3Signer) {
	t.Helper()

	store, _ := newStore(t)
	verifier := blobstore.NewVerifier("us-east-1", testAccessKey, testSecretKey)

	r := chi.NewRouter()
	r.Mount("/attachments", blobstore.NewHandler(store, verifier, nil).Router())
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	signer, err := objectstore.NewS3Signer(context.Background(), objectstore.S3Config{
		Bucket:       "attachments",
		Region:       "us-east-1",
		Endpoint:     srv.URL,
		UsePathStyle: true,
		AccessKey:    testAccessKey,
		SecretKey:    testSecretKey,
	})
	require.NoError(t, err)

	return srv, signer
}

func doRequest(t *testing.T, srv *httptest.Server, method, target, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, target, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestHandler_PresignedUploadRoundTrip(t *testing.T) {
	srv, signer := newBucketServer(t)

	uploadURL, err := signer.PresignPut(context.Background(), "task-1", 5*time.Minute)
	require.NoError(t, err)

	resp := doRequest(t, srv, http.MethodPut, uploadURL, "hello attachment")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("ETag"))

	resp = doRequest(t, srv, http.MethodGet, signer.PublicURL("task-1"), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "hello attachment", string(body))

	resp = doRequest(t, srv, http.MethodHead, signer.PublicURL("task-1"), "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHandler_Put_RejectsUnsignedOrTampered(t *testing.T) {
	srv, signer := newBucketServer(t)

	resp := doRequest(t, srv, http.MethodPut, srv.URL+"/attachments/task-1", "x")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	uploadURL, err := signer.PresignPut(context.Background(), "task-1", 5*time.Minute)
	require.NoError(t, err)

	// The signature covers the key
	tampered := strings.Replace(uploadURL, "/attachments/task-1", "/attachments/task-2", 1)
	resp = doRequest(t, srv, http.MethodPut, tampered, "x")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, srv, http.MethodGet, signer.PublicURL("task-2"), "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandler_Get(t *testing.T) {
	srv, _ := newBucketServer(t)

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"missing object", "/attachments/nope", http.StatusNotFound},
		{"temp file name", "/attachments/.tmp-123", http.StatusBadRequest},
		{"nested temp file name", "/attachments/a/.tmp-123", http.StatusBadRequest},
		{"dot file is a regular key", "/attachments/.travis", http.StatusNotFound},
		{"directory key", "/attachments/folder/", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, srv, http.MethodGet, srv.URL+tt.path, "")
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}
