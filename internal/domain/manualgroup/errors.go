package manualgroup

import "errors"

var (
	// ErrGroupNotFound indicates the manual group doesn't exist.
	ErrGroupNotFound = errors.New("manual group not found")
	// ErrNotMember indicates the row is not in the group.
	ErrNotMember = errors.New("row not in manual group")
	// ErrInvalidInput indicates a missing name or an empty row list.
	ErrInvalidInput = errors.New("invalid manual group input")
	// ErrPersist indicates the store rejected a write. In-memory state is kept.
	ErrPersist = errors.New("persist manual groups")
)
