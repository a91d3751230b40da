package transport

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// ErrUnauthorized indicates invalid or missing credentials.
var ErrUnauthorized = errors.New("unauthorized")

type tenantKey struct{}

// TenantResolver resolves a tenant ID from a bearer token.
type TenantResolver interface {
	ResolveTenant(ctx context.Context, token string) (string, error)
}

// StaticTokens maps configured bearer tokens to tenants.
type StaticTokens map[string]string

func (s StaticTokens) ResolveTenant(_ context.Context, token string) (string, error) {
	tenantID, ok := s[token]
	if !ok || tenantID == "" {
		return "", ErrUnauthorized
	}
	return tenantID, nil
}

// Resolvers tries each resolver in order and returns the first tenant found.
type Resolvers []TenantResolver

func (rs Resolvers) ResolveTenant(ctx context.Context, token string) (string, error) {
	var errs []error
	for _, r := range rs {
		if r == nil {
			continue
		}
		tenantID, err := r.ResolveTenant(ctx, token)
		if err == nil && tenantID != "" {
			return tenantID, nil
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return "", errors.Join(append([]error{ErrUnauthorized}, errs...)...)
}

// TenantFromContext returns the tenant ID from context, if present.
func TenantFromContext(ctx context.Context) (string, bool) {
	tenantID, ok := ctx.Value(tenantKey{}).(string)
	return tenantID, ok
}

// WithTenant returns ctx carrying tenantID.
func WithTenant(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, tenantKey{}, tenantID)
}

// AuthMiddleware enforces bearer token authentication.
func AuthMiddleware(resolver TenantResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if token == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			tenantID, err := resolver.ResolveTenant(r.Context(), token)
			if err != nil || tenantID == "" {
				http.Error(w, "invalid bearer token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithTenant(r.Context(), tenantID)))
		})
	}
}

// StaticTenantMiddleware serves every request as tenantID. Used when
// authentication is disabled.
func StaticTenantMiddleware(tenantID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithTenant(r.Context(), tenantID)))
		})
	}
}
