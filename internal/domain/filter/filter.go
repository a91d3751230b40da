package filter

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rpggio/gridview/internal/domain/table"
)

// Op is a numeric comparison operator.
type Op string

const (
	OpEqual   Op = "equal"
	OpLess    Op = "less"
	OpGreater Op = "greater"
)

// Valid reports whether op is a known operator.
func (op Op) Valid() bool {
	switch op {
	case OpEqual, OpLess, OpGreater:
		return true
	}
	return false
}

// Condition is one column's predicate.
type Condition struct {
	Op    Op      `json:"op"`
	Value float64 `json:"value"`
}

// Filters maps column keys to conditions. All conditions must hold.
type Filters map[string]Condition

// Parse validates raw user input into a condition.
func Parse(op, raw string) (Condition, error) {
	op = strings.TrimSpace(op)
	if op == "" {
		return Condition{}, ErrMissingOperator
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Condition{}, fmt.Errorf("%w: empty value", ErrInvalidValue)
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Condition{}, fmt.Errorf("%w: %q", ErrInvalidValue, raw)
	}
	return New(Op(op), value)
}

// New validates a typed condition.
func New(op Op, value float64) (Condition, error) {
	if op == "" {
		return Condition{}, ErrMissingOperator
	}
	if !op.Valid() {
		return Condition{}, fmt.Errorf("%w: %q", ErrUnknownOperator, op)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Condition{}, fmt.Errorf("%w: not finite", ErrInvalidValue)
	}
	return Condition{Op: op, Value: value}, nil
}

// Match reports whether v satisfies the condition. Non-numeric values never match.
func (c Condition) Match(v any) bool {
	n, ok := table.Numeric(v)
	if !ok {
		return false
	}
	switch c.Op {
	case OpEqual:
		return n == c.Value
	case OpLess:
		return n < c.Value
	case OpGreater:
		return n > c.Value
	}
	return false
}

// Clone returns an independent copy.
func (f Filters) Clone() Filters {
	if f == nil {
		return nil
	}
	out := make(Filters, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Apply returns the rows that satisfy every filter, preserving order.
func Apply(rows []table.Row, filters Filters) []table.Row {
	out := make([]table.Row, 0, len(rows))
	for _, row := range rows {
		if matches(row, filters) {
			out = append(out, row)
		}
	}
	return out
}

func matches(row table.Row, filters Filters) bool {
	for key, cond := range filters {
		if !cond.Match(row.Get(key)) {
			return false
		}
	}
	return true
}
