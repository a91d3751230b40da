package testserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/gridview/internal/controller"
	"github.com/rpggio/gridview/internal/domain/table"
	"github.com/rpggio/gridview/internal/mcp"
	"github.com/rpggio/gridview/internal/sqlite"
	"github.com/rpggio/gridview/internal/tables"
	"github.com/rpggio/gridview/internal/transport"
	"github.com/stretchr/testify/require"
)

type TestServer struct {
	Server   *httptest.Server
	DB       *sqlite.DB
	Keys     *sqlite.APIKeyRepository
	Token    string
	TenantID string
}

// Trades is a small dataset shared by server-level tests.
func Trades() tables.Definition {
	return tables.Definition{
		Name:  "trades",
		Title: "Trades",
		Columns: []table.Column{
			{Key: "id", Title: "ID", Sortable: true, Type: table.TypeString},
			{Key: "buySell", Title: "Buy/Sell", Sortable: true, Type: table.TypeString},
			{Key: "desk", Title: "Desk", Sortable: true, Type: table.TypeString},
			{Key: "extendedAmount", Title: "Amount", Sortable: true, Type: table.TypeNumber},
		},
		Pinned: []string{"id"},
		Flags:  controller.AllFeatures(),
		Rows: []table.Row{
			table.NewRow("1", map[string]any{"buySell": "Buy", "desk": "Rates", "extendedAmount": 100}),
			table.NewRow("2", map[string]any{"buySell": "Sell", "desk": "Rates", "extendedAmount": 1500}),
			table.NewRow("3", map[string]any{"buySell": "Buy", "desk": "FX", "extendedAmount": nil}),
		},
	}
}

// New starts an authenticated HTTP server over an in-memory database and
// issues an API key for tenantID.
func New(t *testing.T, tenantID string, defs ...tables.Definition) *TestServer {
	t.Helper()
	if len(defs) == 0 {
		defs = []tables.Definition{Trades()}
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	keys := sqlite.NewAPIKeyRepository(db)
	registry := tables.NewRegistry(defs, sqlite.NewKVStore(db), "en-US", nil)
	handler := mcp.NewHandler(registry)

	mcpServer := mcp.NewServer(mcp.Config{
		Tables:        registry,
		Resolver:      keys,
		AuthEnabled:   true,
		TransportMode: "http",
	})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{Stateless: true},
	)

	server := httptest.NewServer(transport.NewServer(handler, transport.Options{
		Auth: transport.AuthMiddleware(transport.Resolvers{keys}),
		MCP:  mcpHandler,
	}))

	ts := &TestServer{
		Server:   server,
		DB:       db,
		Keys:     keys,
		TenantID: tenantID,
	}
	ts.Token, err = ts.AddAPIKey(tenantID)
	require.NoError(t, err)

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

// AddAPIKey issues a new token for tenantID.
func (ts *TestServer) AddAPIKey(tenantID string) (string, error) {
	return ts.Keys.Create(context.Background(), tenantID, "test")
}

// Call posts a JSON-RPC request to /rpc with token and decodes the response.
func (ts *TestServer) Call(t *testing.T, token, method string, params any) transport.Response {
	t.Helper()
	raw, err := json.Marshal(params)
	require.NoError(t, err)
	body, err := json.Marshal(transport.Request{JSONRPC: "2.0", Method: method, Params: raw, ID: 1})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/rpc", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out transport.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
