package auth

import "errors"

var (
	// ErrMissingHeader is returned when the authorization header is absent or empty
	ErrMissingHeader = errors.New("auth: no authentication header")
	// ErrMalformedHeader is returned when the header does not use the bearer scheme
	ErrMalformedHeader = errors.New("auth: invalid authentication header")
	// ErrInvalidSignature is returned when the token signature or algorithm is not accepted
	ErrInvalidSignature = errors.New("auth: invalid signature")
	// ErrExpired is returned when the token expiry claim is in the past
	ErrExpired = errors.New("auth: token expired")
	// ErrInvalidToken is returned when the token cannot be decoded or lacks required claims
	ErrInvalidToken = errors.New("auth: invalid token")
)
