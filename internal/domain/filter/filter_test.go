package filter_test

import (
	"testing"

	"github.com/rpggio/gridview/internal/domain/filter"
	"github.com/rpggio/gridview/internal/domain/table"
	"github.com/stretchr/testify/require"
)

func tradeRows() []table.Row {
	return []table.Row{
		table.NewRow("1", map[string]any{"buySell": "Buy", "extendedAmount": 100.0, "qty": 5.0}),
		table.NewRow("2", map[string]any{"buySell": "Sell", "extendedAmount": 50.0, "qty": 1.0}),
		table.NewRow("3", map[string]any{"buySell": "Buy", "extendedAmount": nil, "qty": 9.0}),
	}
}

func TestApply_GreaterExcludesNull(t *testing.T) {
	out := filter.Apply(tradeRows(), filter.Filters{
		"extendedAmount": {Op: filter.OpGreater, Value: 60},
	})
	require.Len(t, out, 1)
	require.Equal(t, "1", out[0].ID)
}

func TestApply_ConditionsAnd(t *testing.T) {
	out := filter.Apply(tradeRows(), filter.Filters{
		"extendedAmount": {Op: filter.OpLess, Value: 200},
		"qty":            {Op: filter.OpEqual, Value: 1},
	})
	require.Len(t, out, 1)
	require.Equal(t, "2", out[0].ID)
}

func TestApply_NonNumericFails(t *testing.T) {
	out := filter.Apply(tradeRows(), filter.Filters{
		"buySell": {Op: filter.OpGreater, Value: 0},
	})
	require.Empty(t, out)
}

func TestApply_Empty(t *testing.T) {
	out := filter.Apply(tradeRows(), nil)
	require.Len(t, out, 3)
}

func TestParse(t *testing.T) {
	cond, err := filter.Parse("greater", " 60 ")
	require.NoError(t, err)
	require.Equal(t, filter.Condition{Op: filter.OpGreater, Value: 60}, cond)

	_, err = filter.Parse("", "60")
	require.ErrorIs(t, err, filter.ErrMissingOperator)
	require.ErrorIs(t, err, filter.ErrInvalidFilter)

	_, err = filter.Parse("greater", "sixty")
	require.ErrorIs(t, err, filter.ErrInvalidValue)

	_, err = filter.Parse("between", "1")
	require.ErrorIs(t, err, filter.ErrUnknownOperator)
}
