package dataset

import "errors"

var (
	// ErrUnsupportedFormat indicates a data file that is neither JSON nor CSV.
	ErrUnsupportedFormat = errors.New("unsupported data format")
	// ErrMissingIDColumn indicates a CSV file without an "id" header.
	ErrMissingIDColumn = errors.New("csv has no id column")
)
