package layout

import "errors"

var (
	// ErrInvalidLayout indicates visible keys or an order that don't fit the table's columns.
	ErrInvalidLayout = errors.New("invalid column layout")
	// ErrPinnedColumn indicates a drag started on a pinned column.
	ErrPinnedColumn = errors.New("column is pinned")
	// ErrUnknownColumn indicates a key that is not part of the table.
	ErrUnknownColumn = errors.New("unknown column")
)
