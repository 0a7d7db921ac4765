package repository

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicate indicates a unique constraint rejected the write. The
	// constraint is the authority for email/username uniqueness; validator
	// pre-checks are advisory only.
	ErrDuplicate = errors.New("repository: duplicate value")
)

// DuplicateError carries the violated constraint so the caller can map it to
// the matching message key.
type DuplicateError struct {
	Constraint string
}

// Error implements error.
func (e *DuplicateError) Error() string {
	return "repository: duplicate value on " + e.Constraint
}

// Unwrap lets errors.Is match ErrDuplicate.
func (e *DuplicateError) Unwrap() error {
	return ErrDuplicate
}
