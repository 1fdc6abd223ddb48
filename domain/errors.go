package domain

import "errors"

// Sentinel errors shared across use cases and handlers. Handlers map these
// to HTTP status codes; everything else is an internal error.
var (
	// ErrNotFound covers both genuinely absent records and records the
	// caller is not allowed to see. Ownership checks never return a
	// distinct "forbidden" error.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is a client-side validation failure.
	ErrInvalidInput = errors.New("invalid input")

	// ErrFileLocked means an artifact could not be removed because another
	// process held it open, after all retry attempts were exhausted.
	ErrFileLocked = errors.New("file is in use")

	// ErrInvalidToken is returned by the identity verifier for tokens that
	// fail verification or audience checks.
	ErrInvalidToken = errors.New("invalid token")
)
