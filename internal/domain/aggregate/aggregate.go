package aggregate

import (
	"github.com/rpggio/gridview/internal/domain/table"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Op is an aggregation operator.
type Op string

const (
	OpSum     Op = "sum"
	OpAverage Op = "average"
)

// Valid reports whether op is a known operator.
func (op Op) Valid() bool {
	return op == OpSum || op == OpAverage
}

// Result is one column's summary.
type Result struct {
	Op             Op      `json:"op"`
	Value          float64 `json:"value"`
	FormattedValue string  `json:"formatted_value"`
}

// Set holds results keyed by column.
type Set map[string]Result

// Clone returns an independent copy.
func (s Set) Clone() Set {
	if s == nil {
		return nil
	}
	out := make(Set, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Engine computes and formats column summaries.
type Engine struct {
	printer *message.Printer
}

// NewEngine creates an engine formatting for locale. Unknown locales fall back to English.
func NewEngine(locale string) *Engine {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Engine{printer: message.NewPrinter(tag)}
}

// Compute summarizes col over rows. ok is false when col is not numeric or
// op is unknown.
func (e *Engine) Compute(rows []table.Row, col table.Column, op Op) (Result, bool) {
	if !col.IsNumeric() || !op.Valid() {
		return Result{}, false
	}

	sum := decimal.Zero
	count := int64(0)
	for _, row := range rows {
		v, ok := table.Numeric(row.Get(col.Key))
		if !ok {
			continue
		}
		sum = sum.Add(decimal.NewFromFloat(v))
		count++
	}

	value := sum
	if op == OpAverage && count > 0 {
		value = sum.DivRound(decimal.NewFromInt(count), 8)
	}
	return e.result(op, value), true
}

// Reformat rebuilds a result from a stored op and value.
func (e *Engine) Reformat(op Op, value float64) Result {
	return e.result(op, decimal.NewFromFloat(value))
}

func (e *Engine) result(op Op, value decimal.Decimal) Result {
	return Result{
		Op:             op,
		Value:          value.InexactFloat64(),
		FormattedValue: e.format(op, value),
	}
}

func (e *Engine) format(op Op, value decimal.Decimal) string {
	if op == OpAverage {
		return value.StringFixed(2)
	}
	return e.printer.Sprintf("%v", number.Decimal(value.InexactFloat64(), number.MaxFractionDigits(3)))
}
