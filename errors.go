package tasker

import "errors"

var (
	// ErrNotFound is returned when a task does not exist for the given owner
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized is returned when no identity is attached to a request
	ErrUnauthorized = errors.New("unauthorized")
	// ErrStorage wraps failures reported by the task repository
	ErrStorage = errors.New("storage failure")
	// ErrSigning wraps failures reported by the upload URL signer
	ErrSigning = errors.New("signing failure")
)
