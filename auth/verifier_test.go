package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/tasker/auth"
)

func TestNewVerifier(t *testing.T) {
	kp := newKeyPair(t)

	t.Run("certificate", func(t *testing.T) {
		v, err := auth.NewVerifier(kp.certPEM)
		require.NoError(t, err)
		assert.NotNil(t, v)
	})

	t.Run("public key", func(t *testing.T) {
		v, err := auth.NewVerifier(kp.pubPEM)
		require.NoError(t, err)
		assert.NotNil(t, v)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := auth.NewVerifier(nil)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := auth.NewVerifier([]byte("not a pem"))
		assert.Error(t, err)
	})
}

func TestVerifier_Verify_ValidToken(t *testing.T) {
	kp := newKeyPair(t)
	v, err := auth.NewVerifier(kp.certPEM)
	require.NoError(t, err)

	claims, err := v.Verify(signToken(t, kp.key, validClaims("abc123")))
	require.NoError(t, err)
	assert.Equal(t, "abc123", claims.Subject)
	assert.Equal(t, "https://idp.example.com/", claims.Issuer)
}

func TestVerifier_Verify_ForeignKey(t *testing.T) {
	trusted := newKeyPair(t)
	foreign := newKeyPair(t)
	v, err := auth.NewVerifier(trusted.certPEM)
	require.NoError(t, err)

	_, err = v.Verify(signToken(t, foreign.key, validClaims("abc123")))
	assert.ErrorIs(t, err, auth.ErrInvalidSignature)
}

func TestVerifier_Verify_WrongAlgorithm(t *testing.T) {
	kp := newKeyPair(t)
	v, err := auth.NewVerifier(kp.certPEM)
	require.NoError(t, err)

	hs, err := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims("abc123")).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = v.Verify(hs)
	assert.ErrorIs(t, err, auth.ErrInvalidSignature)
}

func TestVerifier_Verify_ExpiredButSigned(t *testing.T) {
	kp := newKeyPair(t)
	v, err := auth.NewVerifier(kp.certPEM)
	require.NoError(t, err)

	claims := validClaims("abc123")
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	_, err = v.Verify(signToken(t, kp.key, claims))
	assert.ErrorIs(t, err, auth.ErrExpired)
}

func TestVerifier_Verify_ExpiredForeignKey(t *testing.T) {
	trusted := newKeyPair(t)
	foreign := newKeyPair(t)
	v, err := auth.NewVerifier(trusted.certPEM)
	require.NoError(t, err)

	claims := validClaims("abc123")
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	// signature is checked before expiry
	_, err = v.Verify(signToken(t, foreign.key, claims))
	assert.ErrorIs(t, err, auth.ErrInvalidSignature)
}

func TestVerifier_Verify_Clock(t *testing.T) {
	kp := newKeyPair(t)
	later := func() time.Time { return time.Now().Add(2 * time.Hour) }
	v, err := auth.NewVerifier(kp.certPEM, auth.WithClock(later))
	require.NoError(t, err)

	_, err = v.Verify(signToken(t, kp.key, validClaims("abc123")))
	assert.ErrorIs(t, err, auth.ErrExpired)
}

func TestVerifier_Verify_MissingSubject(t *testing.T) {
	kp := newKeyPair(t)
	v, err := auth.NewVerifier(kp.certPEM)
	require.NoError(t, err)

	_, err = v.Verify(signToken(t, kp.key, validClaims("")))
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerifier_Verify_Malformed(t *testing.T) {
	kp := newKeyPair(t)
	v, err := auth.NewVerifier(kp.certPEM)
	require.NoError(t, err)

	for _, token := range []string{"", "abc", "a.b.c"} {
		_, err = v.Verify(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken, "token %q", token)
	}
}

func TestVerifier_Verify_IssuerAndAudience(t *testing.T) {
	kp := newKeyPair(t)

	claims := validClaims("abc123")
	claims.Audience = jwt.ClaimStrings{"tasker"}
	token := signToken(t, kp.key, claims)

	t.Run("matching", func(t *testing.T) {
		v, err := auth.NewVerifier(kp.certPEM,
			auth.WithIssuer("https://idp.example.com/"),
			auth.WithAudience("tasker"))
		require.NoError(t, err)

		_, err = v.Verify(token)
		assert.NoError(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		v, err := auth.NewVerifier(kp.certPEM, auth.WithIssuer("https://other.example.com/"))
		require.NoError(t, err)

		_, err = v.Verify(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("wrong audience", func(t *testing.T) {
		v, err := auth.NewVerifier(kp.certPEM, auth.WithAudience("billing"))
		require.NoError(t, err)

		_, err = v.Verify(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

func TestSigner_RoundTrip(t *testing.T) {
	kp := newKeyPair(t)

	s, err := auth.NewSigner(kp.privPEM, "tasker-dev")
	require.NoError(t, err)

	token, err := s.Sign("u1", time.Minute)
	require.NoError(t, err)

	v, err := auth.NewVerifier(kp.certPEM, auth.WithIssuer("tasker-dev"))
	require.NoError(t, err)

	claims, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestSigner_Sign_Invalid(t *testing.T) {
	kp := newKeyPair(t)
	s, err := auth.NewSigner(kp.privPEM, "")
	require.NoError(t, err)

	_, err = s.Sign(" ", time.Minute)
	assert.Error(t, err)

	_, err = s.Sign("u1", 0)
	assert.Error(t, err)

	_, err = auth.NewSigner(kp.pubPEM, "")
	assert.Error(t, err)
}
