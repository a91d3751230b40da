package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type contextKey int

const tenantIDKey contextKey = iota

func getTenantID(ctx context.Context) string {
	v, _ := ctx.Value(tenantIDKey).(string)
	return v
}

func withTenantID(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, tenantIDKey, tenantID)
}

// TenantResolver resolves a tenant ID from a bearer token. Tenants scope
// persisted views and manual groups.
type TenantResolver interface {
	ResolveTenant(ctx context.Context, token string) (string, error)
}

// tenantless reports methods that are answered without a tenant: the
// handshake, pings and client notifications.
func tenantless(method string) bool {
	return method == "initialize" || method == "ping" || strings.HasPrefix(method, "notifications/")
}

func bearerToken(req sdkmcp.Request) (string, error) {
	extra := req.GetExtra()
	if extra == nil || extra.Header == nil {
		return "", fmt.Errorf("%w: missing headers", ErrUnauthorized)
	}
	auth := extra.Header.Get("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	token = strings.TrimSpace(token)
	if !ok || token == "" {
		return "", fmt.Errorf("%w: missing bearer token", ErrUnauthorized)
	}
	return token, nil
}

// authMiddleware resolves the caller's tenant from the Authorization header
// of every tenant-scoped request.
func authMiddleware(resolver TenantResolver, logger *slog.Logger) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if tenantless(method) {
				return next(ctx, method, req)
			}

			token, err := bearerToken(req)
			if err != nil {
				logger.Warn("mcp request rejected", "method", method, "error", err)
				return nil, err
			}
			tenantID, err := resolver.ResolveTenant(ctx, token)
			if err != nil {
				logger.Warn("mcp request rejected", "method", method, "error", err)
				return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
			}
			if tenantID == "" {
				return nil, fmt.Errorf("%w: invalid bearer token", ErrUnauthorized)
			}
			return next(withTenantID(ctx, tenantID), method, req)
		}
	}
}

// noAuthMiddleware pins every request to one tenant.
func noAuthMiddleware(tenantID string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			return next(withTenantID(ctx, tenantID), method, req)
		}
	}
}
