package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/tasker/auth"
)

func newAuthorizer(t *testing.T, kp keyPair) (*auth.Authorizer, *bytes.Buffer) {
	t.Helper()

	v, err := auth.NewVerifier(kp.certPEM)
	require.NoError(t, err)

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return auth.NewAuthorizer(v, logger), &buf
}

func assertDecision(t *testing.T, d auth.Decision, principal string, effect auth.Effect) {
	t.Helper()

	assert.Equal(t, principal, d.PrincipalID)
	assert.Equal(t, auth.PolicyVersion, d.PolicyDocument.Version)
	require.Len(t, d.PolicyDocument.Statement, 1)
	assert.Equal(t, auth.InvokeAction, d.PolicyDocument.Statement[0].Action)
	assert.Equal(t, effect, d.PolicyDocument.Statement[0].Effect)
	assert.Equal(t, "*", d.PolicyDocument.Statement[0].Resource)
}

func TestAuthorizer_Allow(t *testing.T) {
	kp := newKeyPair(t)
	a, logs := newAuthorizer(t, kp)

	header := "Bearer " + signToken(t, kp.key, validClaims("abc123"))
	d := a.Authorize(context.Background(), header)

	assertDecision(t, d, "abc123", auth.Allow)
	assert.True(t, d.Allowed())
	assert.Contains(t, logs.String(), "user was authorized")
	assert.Contains(t, logs.String(), header)
}

func TestAuthorizer_Deny(t *testing.T) {
	kp := newKeyPair(t)
	foreign := newKeyPair(t)

	expired := validClaims("abc123")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	tests := []struct {
		name   string
		header string
	}{
		{name: "empty header", header: ""},
		{name: "basic scheme", header: "Basic xyz"},
		{name: "empty token", header: "Bearer "},
		{name: "garbage token", header: "Bearer not-a-jwt"},
		{name: "foreign key", header: "Bearer " + signToken(t, foreign.key, validClaims("abc123"))},
		{name: "expired", header: "Bearer " + signToken(t, kp.key, expired)},
		{name: "no subject", header: "Bearer " + signToken(t, kp.key, validClaims(""))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, logs := newAuthorizer(t, kp)

			d := a.Authorize(context.Background(), tt.header)

			assertDecision(t, d, auth.DeniedPrincipal, auth.Deny)
			assert.False(t, d.Allowed())
			assert.Contains(t, logs.String(), "user not authorized")
		})
	}
}

func TestAuthorizer_NilVerifier(t *testing.T) {
	a := auth.NewAuthorizer(nil, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	d := a.Authorize(context.Background(), "Bearer abc")

	assertDecision(t, d, auth.DeniedPrincipal, auth.Deny)
}

func TestDecision_JSON(t *testing.T) {
	kp := newKeyPair(t)
	a, _ := newAuthorizer(t, kp)

	d := a.Authorize(context.Background(), "")
	data, err := json.Marshal(d)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"principalId": "user",
		"policyDocument": {
			"Version": "2012-10-17",
			"Statement": [{"Action": "execute-api:Invoke", "Effect": "Deny", "Resource": "*"}]
		}
	}`, string(data))
}

func TestDecision_Allowed_Empty(t *testing.T) {
	assert.False(t, auth.Decision{}.Allowed())
}

func TestUserIDContext(t *testing.T) {
	ctx := auth.ContextWithUserID(context.Background(), "u1")
	id, ok := auth.UserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "u1", id)

	_, ok = auth.UserIDFromContext(context.Background())
	assert.False(t, ok)
}

func TestNewAuthorizerFromPEM(t *testing.T) {
	kp := newKeyPair(t)

	a, err := auth.NewAuthorizerFromPEM(kp.certPEM, nil, auth.WithIssuer("https://idp.example.com/"))
	require.NoError(t, err)

	header := "Bearer " + signToken(t, kp.key, validClaims("abc123"))
	assertDecision(t, a.Authorize(context.Background(), header), "abc123", auth.Allow)

	other := validClaims("abc123")
	other.Issuer = "https://other.example.com/"
	header = "Bearer " + signToken(t, kp.key, other)
	assertDecision(t, a.Authorize(context.Background(), header), auth.DeniedPrincipal, auth.Deny)
}

func TestNewAuthorizerFromPEM_InvalidPEM(t *testing.T) {
	_, err := auth.NewAuthorizerFromPEM([]byte("not a certificate"), nil)
	assert.Error(t, err)

	_, err = auth.NewAuthorizerFromPEM(nil, nil)
	assert.Error(t, err)
}
