package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rpggio/gridview/internal/domain/table"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
server:
  port: 9090
transport:
  mode: stdio
auth:
  enabled: true
  tokens:
    secret: tenant1
tables:
  - name: trades
    title: Trades
    data: testdata/trades.json
    pinned: [id]
    features:
      grouping: true
      aggregation: true
    columns:
      - {key: id, title: ID, sortable: true, type: string}
      - {key: extendedAmount, title: Amount, sortable: true, type: number, format: currency}
`

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GRIDVIEW_CONFIG_PATH", "")
	t.Setenv("GRIDVIEW_TRANSPORT", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "gridview.db", cfg.DB.Path)
	require.Equal(t, "http", cfg.Transport.Mode)
	require.Equal(t, "en-US", cfg.Locale)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gridview.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))
	t.Setenv("GRIDVIEW_CONFIG_PATH", path)
	t.Setenv("GRIDVIEW_SERVER_PORT", "7070")
	t.Setenv("GRIDVIEW_TRANSPORT", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 7070, cfg.Server.Port)
	require.Equal(t, "stdio", cfg.Transport.Mode)
	require.Equal(t, "tenant1", cfg.Auth.Tokens["secret"])

	tc, ok := cfg.Table("trades")
	require.True(t, ok)
	require.Equal(t, []string{"id"}, tc.Pinned)
	require.True(t, tc.Features.Grouping)
	require.False(t, tc.Features.ColumnReordering)
	require.Len(t, tc.Columns, 2)
	require.Equal(t, table.TypeNumber, tc.Columns[1].Type)
	require.Equal(t, "currency", tc.Columns[1].Format)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("GRIDVIEW_CONFIG_PATH", "")
	t.Setenv("GRIDVIEW_SERVER_PORT", "eighty")

	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := Config{Transport: TransportConfig{Mode: "http"}}
	require.NoError(t, base.Validate())

	bad := base
	bad.Transport.Mode = "carrier-pigeon"
	require.Error(t, bad.Validate())

	dup := base
	dup.Tables = []TableConfig{{Name: "a"}, {Name: "a"}}
	require.Error(t, dup.Validate())

	slash := base
	slash.Tables = []TableConfig{{Name: "a/b"}}
	require.Error(t, slash.Validate())

	cols := base
	cols.Tables = []TableConfig{{Name: "a", Columns: []table.Column{{Key: "x", Type: "blob"}}}}
	require.ErrorIs(t, cols.Validate(), table.ErrInvalidColumn)
}
