package dataset

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rpggio/gridview/internal/domain/table"
	"github.com/stretchr/testify/require"
)

var tradeColumns = []table.Column{
	{Key: "id", Title: "ID", Type: table.TypeString},
	{Key: "buySell", Title: "Buy/Sell", Type: table.TypeString},
	{Key: "extendedAmount", Title: "Amount", Type: table.TypeNumber},
	{Key: "tradeDate", Title: "Trade Date", Type: table.TypeDate},
}

func TestLoadFile_JSON(t *testing.T) {
	rows, err := LoadFile("testdata/trades.json", tradeColumns)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "1", rows[0].ID)
	require.Equal(t, "Buy", rows[0].Get("buySell"))
	require.Nil(t, rows[2].Get("extendedAmount"))
}

func TestLoadFile_CSV(t *testing.T) {
	rows, err := LoadFile("testdata/trades.csv", tradeColumns)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "2", rows[1].ID)
	require.Equal(t, json.Number("50"), rows[1].Get("extendedAmount"))
	require.Equal(t, "2024-03-02", rows[1].Get("tradeDate"))
	require.Nil(t, rows[2].Get("extendedAmount"))
}

func TestLoadFile_UnsupportedFormat(t *testing.T) {
	_, err := LoadFile("testdata/trades.xlsx", tradeColumns)
	require.Error(t, err)
}

func TestReadCSV_RequiresID(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("name,amount\nx,1\n"), nil)
	require.ErrorIs(t, err, ErrMissingIDColumn)

	rows, err := ReadCSV(strings.NewReader(""), nil)
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestReadCSV_NonNumericCellKept(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader("id,extendedAmount\n1,n/a\n"), tradeColumns)
	require.NoError(t, err)
	require.Equal(t, "n/a", rows[0].Get("extendedAmount"))
}

func TestLoadAll(t *testing.T) {
	got, err := LoadAll(context.Background(), []Source{
		{Name: "json", Path: "testdata/trades.json", Columns: tradeColumns},
		{Name: "csv", Path: "testdata/trades.csv", Columns: tradeColumns},
	})
	require.NoError(t, err)
	require.Len(t, got["json"], 3)
	require.Len(t, got["csv"], 3)

	_, err = LoadAll(context.Background(), []Source{
		{Name: "json", Path: "testdata/trades.json", Columns: tradeColumns},
		{Name: "missing", Path: "testdata/missing.csv", Columns: tradeColumns},
	})
	require.ErrorContains(t, err, "table missing")
}
