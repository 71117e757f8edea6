package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Signer mints RS256 tokens. It stands in for the identity provider during
// local development and in tests.
type Signer struct {
	key    *rsa.PrivateKey
	issuer string
	now    func() time.Time
}

// NewSigner creates a Signer from a PEM encoded RSA private key (PKCS#1 or PKCS#8).
func NewSigner(privatePEM []byte, issuer string) (*Signer, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM(privatePEM)
	if err != nil {
		return nil, fmt.Errorf("new signer: parse private key: %w", err)
	}
	return &Signer{key: key, issuer: strings.TrimSpace(issuer), now: time.Now}, nil
}

// Sign issues a token for subject valid for ttl.
func (s *Signer) Sign(subject string, ttl time.Duration) (string, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return "", errors.New("sign token: subject is required")
	}
	if ttl <= 0 {
		return "", errors.New("sign token: ttl must be greater than zero")
	}

	now := s.now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
