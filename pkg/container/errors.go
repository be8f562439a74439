package container

import "errors"

var (
	// ErrNotFound is returned when no entry is registered under the identifier.
	ErrNotFound = errors.New("container: entry not found")

	// ErrLocked is returned when registering into a locked container.
	ErrLocked = errors.New("container: locked, no further registrations allowed")

	// ErrTypeMismatch is returned when an entry cannot be converted to the requested type.
	ErrTypeMismatch = errors.New("container: entry has unexpected type")

	// ErrInvalidEntry is returned for empty identifiers or nil values.
	ErrInvalidEntry = errors.New("container: invalid entry")
)
