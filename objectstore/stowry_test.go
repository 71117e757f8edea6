package objectstore

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	stowry "github.com/sagarc03/stowry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStowrySigner_PresignPut(t *testing.T) {
	s, err := NewStowrySigner(StowryConfig{
		Endpoint:  "http://localhost:5708/",
		Bucket:    "attachments",
		AccessKey: "AKIATEST",
		SecretKey: "secret",
	})
	require.NoError(t, err)

	fixed := time.Unix(1700000000, 0)
	s.now = func() time.Time { return fixed }

	raw, err := s.PresignPut(context.Background(), "task-1", 300*time.Second)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "localhost:5708", u.Host)
	assert.Equal(t, "/attachments/task-1", u.Path)

	q := u.Query()
	assert.Equal(t, "AKIATEST", q.Get(stowry.StowryCredentialParam))
	assert.Equal(t, "1700000000", q.Get(stowry.StowryDateParam))
	assert.Equal(t, "300", q.Get(stowry.StowryExpiresParam))
	assert.Equal(t,
		stowry.Sign("secret", http.MethodPut, "/attachments/task-1", 1700000000, 300),
		q.Get(stowry.StowrySignatureParam))
}

func TestStowrySigner_PresignPut_SubSecondExpiry(t *testing.T) {
	s, err := NewStowrySigner(StowryConfig{Endpoint: "http://h", AccessKey: "a", SecretKey: "s"})
	require.NoError(t, err)

	_, err = s.PresignPut(context.Background(), "k", 10*time.Millisecond)
	assert.Error(t, err)
}

func TestStowrySigner_PublicURL(t *testing.T) {
	s, err := NewStowrySigner(StowryConfig{Endpoint: "http://h", AccessKey: "a", SecretKey: "s"})
	require.NoError(t, err)
	assert.Equal(t, "http://h/task-1", s.PublicURL("task-1"))

	s, err = NewStowrySigner(StowryConfig{Endpoint: "http://h", Bucket: "/b/", AccessKey: "a", SecretKey: "s"})
	require.NoError(t, err)
	assert.Equal(t, "http://h/b/task-1", s.PublicURL("task-1"))
}
