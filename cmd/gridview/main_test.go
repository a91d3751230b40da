package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rpggio/gridview/internal/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
locale: en-US
tables:
  - name: trades
    title: Trades
    data: %DATA%
    pinned: [id]
    features:
      grouping: true
      aggregation: true
      column_reordering: true
    columns:
      - {key: id, title: ID, sortable: true, type: string}
      - {key: desk, title: Desk, sortable: true, type: string}
      - {key: amount, title: Amount, sortable: true, type: number}
`

func setupCLI(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	data := filepath.Join(dir, "trades.csv")
	require.NoError(t, os.WriteFile(data, []byte("id,desk,amount\n1,Rates,100\n2,FX,250\n"), 0o644))
	cfgPath := filepath.Join(dir, "gridview.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(strings.ReplaceAll(testConfig, "%DATA%", data)), 0o644))

	t.Setenv("GRIDVIEW_CONFIG_PATH", cfgPath)
	t.Setenv("GRIDVIEW_DB_PATH", filepath.Join(dir, "gridview.db"))
	t.Setenv("GRIDVIEW_LOG_LEVEL", "error")
	return dir
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	tenantFlag = "default"
	exportView = ""
	exportOutput = ""
	keysDescription = ""

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "gridview "+version+"\n", out)
}

func TestTablesCommand(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "tables")
	require.NoError(t, err)
	assert.Contains(t, out, "trades")
	assert.Contains(t, out, "2 rows, 3 columns")
}

func TestExportCommand(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "export", "trades", "-o", "-")
	require.NoError(t, err)
	assert.Equal(t, "ID,Desk,Amount\n1,Rates,100\n2,FX,250\n", out)

	_, err = runCLI(t, "export", "trades", "--view", "missing", "-o", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no saved view named "missing"`)

	_, err = runCLI(t, "export", "nope", "-o", "-")
	require.Error(t, err)
}

func TestExportCommandWritesFile(t *testing.T) {
	dir := setupCLI(t)
	target := filepath.Join(dir, "out", "trades.csv")

	_, err := runCLI(t, "export", "trades", "-o", target)
	require.NoError(t, err)

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "ID,Desk,Amount\n"))
}

func TestViewsCommand(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "views", "list", "trades")
	require.NoError(t, err)
	assert.Equal(t, "No saved views.\n", out)

	out, err = runCLI(t, "views", "clear", "trades")
	require.NoError(t, err)
	assert.Equal(t, "Cleared saved views.\n", out)
}

func TestTenantsCommand(t *testing.T) {
	dir := setupCLI(t)

	out, err := runCLI(t, "tenants")
	require.NoError(t, err)
	assert.Equal(t, "No tenant state stored.\n", out)

	db, err := sqlite.New(filepath.Join(dir, "gridview.db"))
	require.NoError(t, err)
	require.NoError(t, sqlite.NewKVStore(db).Set(context.Background(), "acme/trades/views", []byte("[]")))
	require.NoError(t, db.Close())

	out, err = runCLI(t, "tenants")
	require.NoError(t, err)
	assert.Contains(t, out, "acme")
	assert.Contains(t, out, "trades")
}

func TestKeysCommand(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "keys", "list", "--tenant", "acme")
	require.NoError(t, err)
	assert.Equal(t, "No API keys.\n", out)

	out, err = runCLI(t, "keys", "create", "--tenant", "acme", "--description", "ci")
	require.NoError(t, err)
	token := strings.TrimSpace(out)
	assert.True(t, strings.HasPrefix(token, "gv_"))

	out, err = runCLI(t, "keys", "list", "--tenant", "acme")
	require.NoError(t, err)
	assert.Contains(t, out, "ci")
	assert.Contains(t, out, "last used never")

	out, err = runCLI(t, "keys", "list", "--tenant", "other")
	require.NoError(t, err)
	assert.Equal(t, "No API keys.\n", out)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLogLevel("debug").String())
	assert.Equal(t, "WARN", parseLogLevel("warn").String())
	assert.Equal(t, "INFO", parseLogLevel("bogus").String())
}
