package domain

import "errors"

// Sentinel errors shared across repositories and services. Repositories map
// driver-level failures onto these; the delivery layer maps them onto HTTP
// status codes.
var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned when the acting user is not the owner of
	// the entity being mutated.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnavailable is returned when the backing store cannot be reached.
	ErrUnavailable = errors.New("store unavailable")

	// ErrDuplicate is returned when a uniqueness constraint is violated,
	// e.g. creating a category whose name already exists.
	ErrDuplicate = errors.New("already exists")
)
