package sorting

import (
	"slices"

	"github.com/rpggio/gridview/internal/domain/table"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Direction is the sort direction.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Config names the active sort column. A zero Config means unsorted.
type Config struct {
	Key       string    `json:"key"`
	Direction Direction `json:"direction"`
}

// Active reports whether a sort column is set.
func (c Config) Active() bool {
	return c.Key != ""
}

// Toggle returns the config after a sort request on key: the same key flips
// the direction, a different key starts ascending.
func (c Config) Toggle(key string) Config {
	if c.Key == key && c.Direction == Ascending {
		return Config{Key: key, Direction: Descending}
	}
	return Config{Key: key, Direction: Ascending}
}

// StringComparer orders two strings, typically with locale rules.
type StringComparer interface {
	CompareString(a, b string) int
}

// NewCollator returns a locale-aware comparer. Unknown locales fall back to English.
func NewCollator(locale string) *collate.Collator {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return collate.New(tag)
}

// Sort returns a stably sorted copy of rows. Missing values sort last in both
// directions.
func Sort(rows []table.Row, cfg Config, cmp StringComparer) []table.Row {
	out := slices.Clone(rows)
	if !cfg.Active() {
		return out
	}
	slices.SortStableFunc(out, func(a, b table.Row) int {
		return compareValues(a.Get(cfg.Key), b.Get(cfg.Key), cfg.Direction, cmp)
	})
	return out
}

func compareValues(a, b any, dir Direction, cmp StringComparer) int {
	aNull, bNull := table.IsNull(a), table.IsNull(b)
	switch {
	case aNull && bNull:
		return 0
	case aNull:
		return 1
	case bNull:
		return -1
	}

	result := Compare(a, b, cmp)
	if dir == Descending {
		return -result
	}
	return result
}

// Compare orders two non-missing values. Strings use cmp; anything else
// compares numerically with non-numeric values treated as 0.
func Compare(a, b any, cmp StringComparer) int {
	as, aIsString := a.(string)
	bs, bIsString := b.(string)
	if aIsString && bIsString {
		if cmp == nil {
			switch {
			case as < bs:
				return -1
			case as > bs:
				return 1
			}
			return 0
		}
		return cmp.CompareString(as, bs)
	}

	af, _ := table.Numeric(a)
	bf, _ := table.Numeric(b)
	switch {
	case af < bf:
		return -1
	case af > bf:
		return 1
	}
	return 0
}
