package sorting_test

import (
	"testing"

	"github.com/rpggio/gridview/internal/domain/sorting"
	"github.com/rpggio/gridview/internal/domain/table"
	"github.com/stretchr/testify/require"
)

func ids(rows []table.Row) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ID)
	}
	return out
}

func amountRows() []table.Row {
	return []table.Row{
		table.NewRow("1", map[string]any{"amount": 30.0}),
		table.NewRow("2", map[string]any{"amount": nil}),
		table.NewRow("3", map[string]any{"amount": 10.0}),
		table.NewRow("4", map[string]any{}),
		table.NewRow("5", map[string]any{"amount": 20.0}),
	}
}

func TestSort_NullsLastBothDirections(t *testing.T) {
	rows := amountRows()
	col := sorting.NewCollator("en")

	asc := sorting.Sort(rows, sorting.Config{Key: "amount", Direction: sorting.Ascending}, col)
	require.Equal(t, []string{"3", "5", "1", "2", "4"}, ids(asc))

	desc := sorting.Sort(rows, sorting.Config{Key: "amount", Direction: sorting.Descending}, col)
	require.Equal(t, []string{"1", "5", "3", "2", "4"}, ids(desc))
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	rows := amountRows()
	_ = sorting.Sort(rows, sorting.Config{Key: "amount", Direction: sorting.Ascending}, nil)
	require.Equal(t, []string{"1", "2", "3", "4", "5"}, ids(rows))
}

func TestSort_StableForEqualKeys(t *testing.T) {
	rows := []table.Row{
		table.NewRow("a", map[string]any{"side": "Buy"}),
		table.NewRow("b", map[string]any{"side": "Sell"}),
		table.NewRow("c", map[string]any{"side": "Buy"}),
	}
	out := sorting.Sort(rows, sorting.Config{Key: "side", Direction: sorting.Ascending}, sorting.NewCollator("en"))
	require.Equal(t, []string{"a", "c", "b"}, ids(out))
}

func TestSort_LocaleAwareStrings(t *testing.T) {
	rows := []table.Row{
		table.NewRow("1", map[string]any{"name": "banana"}),
		table.NewRow("2", map[string]any{"name": "Apple"}),
		table.NewRow("3", map[string]any{"name": "cherry"}),
	}
	out := sorting.Sort(rows, sorting.Config{Key: "name", Direction: sorting.Ascending}, sorting.NewCollator("en"))
	require.Equal(t, []string{"2", "1", "3"}, ids(out))
}

func TestSort_Inactive(t *testing.T) {
	out := sorting.Sort(amountRows(), sorting.Config{}, nil)
	require.Equal(t, []string{"1", "2", "3", "4", "5"}, ids(out))
}

func TestConfig_Toggle(t *testing.T) {
	cfg := sorting.Config{}.Toggle("amount")
	require.Equal(t, sorting.Config{Key: "amount", Direction: sorting.Ascending}, cfg)

	cfg = cfg.Toggle("amount")
	require.Equal(t, sorting.Descending, cfg.Direction)

	cfg = cfg.Toggle("amount")
	require.Equal(t, sorting.Ascending, cfg.Direction)

	cfg = cfg.Toggle("amount").Toggle("name")
	require.Equal(t, sorting.Config{Key: "name", Direction: sorting.Ascending}, cfg)
}
