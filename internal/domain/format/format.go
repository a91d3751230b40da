package format

import (
	"strings"
	"time"

	"github.com/rpggio/gridview/internal/domain/table"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Empty is rendered for missing cells.
const Empty = "-"

// Currency is the column format name for money values.
const Currency = "currency"

// Func renders one cell.
type Func func(value any, row table.Row) string

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02", "01/02/2006"}

// Registry resolves a formatter per column: a function registered for the
// column key wins, then a named format, then the column type default.
type Registry struct {
	printer *message.Printer
	byKey   map[string]Func
	named   map[string]Func
}

// NewRegistry creates a registry for locale. Unknown locales fall back to English.
func NewRegistry(locale string) *Registry {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	r := &Registry{
		printer: message.NewPrinter(tag),
		byKey:   make(map[string]Func),
		named:   make(map[string]Func),
	}
	r.named[Currency] = r.currency
	return r
}

// Register installs fn for a column key.
func (r *Registry) Register(key string, fn Func) {
	r.byKey[key] = fn
}

// Cell formats the value of col in row.
func (r *Registry) Cell(col table.Column, row table.Row) string {
	v := row.Get(col.Key)
	if fn, ok := r.byKey[col.Key]; ok {
		return fn(v, row)
	}
	if v == nil || v == "" {
		return Empty
	}
	if fn, ok := r.named[col.Format]; ok {
		return fn(v, row)
	}
	switch col.Type {
	case table.TypeNumber:
		return r.number(v, row)
	case table.TypeDate:
		return date(v)
	}
	return table.Text(v)
}

func (r *Registry) number(v any, _ table.Row) string {
	n, ok := table.Numeric(v)
	if !ok {
		return table.Text(v)
	}
	return r.printer.Sprintf("%v", number.Decimal(n, number.MaxFractionDigits(3)))
}

func (r *Registry) currency(v any, _ table.Row) string {
	n, ok := table.Numeric(v)
	if !ok {
		return table.Text(v)
	}
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	return sign + "$" + r.printer.Sprintf("%v", number.Decimal(n, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

func date(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format("1/2/2006")
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed.Format("1/2/2006")
			}
		}
		return s
	}
	return table.Text(v)
}
