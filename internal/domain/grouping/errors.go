package grouping

import "errors"

// ErrNotGrouped indicates an ungroup request for a column that is not grouped.
var ErrNotGrouped = errors.New("column not grouped")
