package store

import "errors"

var (
	// ErrNotFound is returned when a lookup matches no record,
	// including lookups with a malformed id.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateUser is returned when a username or email is
	// already taken.
	ErrDuplicateUser = errors.New("duplicate user")
)
