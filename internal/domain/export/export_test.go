package export_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/rpggio/gridview/internal/domain/export"
	"github.com/rpggio/gridview/internal/domain/format"
	"github.com/rpggio/gridview/internal/domain/table"
	"github.com/stretchr/testify/require"
)

var cols = []table.Column{
	{Key: "buySell", Title: "Side", Type: table.TypeString},
	{Key: "extendedAmount", Title: "Extended Amount", Type: table.TypeNumber, Format: format.Currency},
}

func TestProjectAndCSV(t *testing.T) {
	rows := []table.Row{
		table.NewRow("1", map[string]any{"buySell": "Buy", "extendedAmount": 1000.0}),
		table.NewRow("2", map[string]any{"buySell": "Sell, short"}),
	}
	p := export.Project(cols, rows, format.NewRegistry("en"))
	require.Equal(t, []string{"Side", "Extended Amount"}, p.Header)
	require.Equal(t, [][]string{{"Buy", "$1,000.00"}, {"Sell, short", "-"}}, p.Rows)

	var buf bytes.Buffer
	require.NoError(t, export.CSV{}.Export(&buf, p))
	require.Equal(t, "Side,Extended Amount\nBuy,\"$1,000.00\"\n\"Sell, short\",-\n", buf.String())
}

func TestProject_EmptyInputs(t *testing.T) {
	p := export.Project(nil, []table.Row{table.NewRow("1", nil)}, format.NewRegistry("en"))
	require.True(t, p.Empty())

	var buf bytes.Buffer
	require.NoError(t, export.CSV{}.Export(&buf, p))
	require.Empty(t, buf.String())

	p = export.Project(cols, nil, format.NewRegistry("en"))
	require.False(t, p.Empty())
	require.Empty(t, p.Rows)
	require.NoError(t, export.CSV{}.Export(&buf, p))
	require.Equal(t, "Side,Extended Amount\n", buf.String())
}

func TestFileName(t *testing.T) {
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	require.Equal(t, "Cash Flow_export_2026-10-15.csv", export.FileName("Cash Flow", now, "csv"))
	require.Equal(t, "a_b_export_2026-10-15.csv", export.FileName("a/b", now, "csv"))
}
