package mcp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

type tokenMap map[string]string

func (m tokenMap) ResolveTenant(_ context.Context, token string) (string, error) {
	tenant, ok := m[token]
	if !ok {
		return "", errors.New("unknown token")
	}
	return tenant, nil
}

func runAuth(t *testing.T, method string, header http.Header) (string, error) {
	t.Helper()
	var seen string
	handler := authMiddleware(tokenMap{"tok": "tenant1"}, slog.New(slog.DiscardHandler))(
		func(ctx context.Context, _ string, _ sdkmcp.Request) (sdkmcp.Result, error) {
			seen = getTenantID(ctx)
			return nil, nil
		})
	req := &sdkmcp.CallToolRequest{Params: &sdkmcp.CallToolParamsRaw{Name: "get_state"}}
	if header != nil {
		req.Extra = &sdkmcp.RequestExtra{Header: header}
	}
	_, err := handler(context.Background(), method, req)
	return seen, err
}

func TestAuthMiddleware(t *testing.T) {
	tenant, err := runAuth(t, "tools/call", http.Header{"Authorization": {"Bearer tok"}})
	require.NoError(t, err)
	require.Equal(t, "tenant1", tenant)

	_, err = runAuth(t, "tools/call", nil)
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = runAuth(t, "tools/call", http.Header{"Authorization": {"Basic tok"}})
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = runAuth(t, "tools/call", http.Header{"Authorization": {"Bearer nope"}})
	require.ErrorIs(t, err, ErrUnauthorized)

	for _, method := range []string{"initialize", "ping", "notifications/initialized"} {
		tenant, err := runAuth(t, method, nil)
		require.NoError(t, err, method)
		require.Empty(t, tenant)
	}
}

func TestNoAuthMiddleware(t *testing.T) {
	var seen string
	handler := noAuthMiddleware(DefaultTenant)(
		func(ctx context.Context, _ string, _ sdkmcp.Request) (sdkmcp.Result, error) {
			seen = getTenantID(ctx)
			return nil, nil
		})
	_, err := handler(context.Background(), "tools/call", &sdkmcp.CallToolRequest{})
	require.NoError(t, err)
	require.Equal(t, DefaultTenant, seen)
}
