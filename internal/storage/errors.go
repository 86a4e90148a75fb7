package storage

import "errors"

// Storage errors shared by all store implementations.
var (
	// ErrNotFound is returned when a requested record does not exist or is
	// not owned by the requesting user.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when input validation fails at the store
	// boundary.
	ErrInvalidInput = errors.New("invalid input")
)
