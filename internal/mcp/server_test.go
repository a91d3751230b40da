package mcp

import (
	"context"
	"encoding/json"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/gridview/internal/repository"
	"github.com/rpggio/gridview/internal/tables"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T, cfg Config) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	if cfg.Tables == nil {
		cfg.Tables = tables.NewRegistry([]tables.Definition{tradesDefinition()}, repository.NewMemoryStore(), "en-US", nil)
	}
	clientTransport, serverTransport := sdkmcp.NewInMemoryTransports()

	serverSession, err := NewServer(cfg).Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func toolText(t *testing.T, res *sdkmcp.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}

func TestServer_ListsCatalog(t *testing.T) {
	session := connect(t, Config{TransportMode: "stdio"})

	res, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	names := make(map[string]bool, len(res.Tools))
	for _, tool := range res.Tools {
		names[tool.Name] = true
	}
	for _, def := range buildToolCatalog() {
		require.True(t, names[def.Name], "tool %s not registered", def.Name)
	}
	require.Len(t, res.Tools, len(buildToolCatalog()))
}

func TestServer_CallTool(t *testing.T) {
	ctx := context.Background()
	session := connect(t, Config{TransportMode: "stdio"})

	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "group_by",
		Arguments: map[string]any{"table": "trades", "key": "desk"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	var resp struct {
		Result  []string `json:"result"`
		Notices []any    `json:"notices"`
	}
	require.NoError(t, json.Unmarshal([]byte(toolText(t, res)), &resp))
	require.Equal(t, []string{"desk"}, resp.Result)
	require.Empty(t, resp.Notices)

	res, err = session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "get_state",
		Arguments: map[string]any{"table": "orders"},
	})
	require.NoError(t, err)
	require.True(t, res.IsError)

	var apiErr APIError
	require.NoError(t, json.Unmarshal([]byte(toolText(t, res)), &apiErr))
	require.Equal(t, "TABLE_NOT_FOUND", apiErr.Code)
}

func TestServer_ReadsDocs(t *testing.T) {
	session := connect(t, Config{TransportMode: "stdio"})

	res, err := session.ReadResource(context.Background(), &sdkmcp.ReadResourceParams{URI: "gridview://docs/concepts"})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	require.Contains(t, res.Contents[0].Text, "## Manual groups")
}

func TestServer_AuthRequiresHeaders(t *testing.T) {
	session := connect(t, Config{TransportMode: "http", AuthEnabled: true})

	_, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      "list_tables",
		Arguments: map[string]any{},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unauthorized")
}
