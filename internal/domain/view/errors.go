package view

import "errors"

var (
	// ErrViewNotFound indicates the saved view doesn't exist.
	ErrViewNotFound = errors.New("view not found")
	// ErrInvalidName indicates a view saved without a name.
	ErrInvalidName = errors.New("view name required")
	// ErrPersist indicates the store rejected a write. In-memory state is kept.
	ErrPersist = errors.New("persist views")
)
