package filter

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFilter indicates a filter that cannot be applied.
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrMissingOperator indicates a filter without an operator.
	ErrMissingOperator = fmt.Errorf("%w: operator required", ErrInvalidFilter)
	// ErrUnknownOperator indicates an operator other than equal, less or greater.
	ErrUnknownOperator = fmt.Errorf("%w: unknown operator", ErrInvalidFilter)
	// ErrInvalidValue indicates a value that does not parse as a number.
	ErrInvalidValue = fmt.Errorf("%w: value must be numeric", ErrInvalidFilter)
)
