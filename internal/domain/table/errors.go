package table

import "errors"

var (
	// ErrMissingRowID indicates a row without a usable id.
	ErrMissingRowID = errors.New("row id missing")
	// ErrDuplicateRowID indicates two rows share an id.
	ErrDuplicateRowID = errors.New("duplicate row id")
	// ErrInvalidColumn indicates a malformed column descriptor.
	ErrInvalidColumn = errors.New("invalid column")
	// ErrDuplicateColumn indicates two columns share a key.
	ErrDuplicateColumn = errors.New("duplicate column key")
	// ErrUnknownColumn indicates a key that is not part of the table.
	ErrUnknownColumn = errors.New("unknown column")
)
