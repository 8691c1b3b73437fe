package repository

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStoreUnavailable wraps transport and driver failures. It never
	// signals an absent record.
	ErrStoreUnavailable = errors.New("plan store unavailable")
)
