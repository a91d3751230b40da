package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// MCPHandler handles tool dispatch for a tenant.
type MCPHandler interface {
	Handle(ctx context.Context, tenantID, method string, params json.RawMessage) (any, error)
	WriteExport(ctx context.Context, tenantID, table string, w io.Writer) (string, error)
}

// Options configures the HTTP router.
type Options struct {
	// Auth guards /rpc and /tables. Nil serves every request as DefaultTenant.
	Auth func(http.Handler) http.Handler
	// DefaultTenant is used when Auth is nil.
	DefaultTenant string
	// MCP, when set, is mounted at /mcp. It authenticates on its own.
	MCP    http.Handler
	Logger *slog.Logger
}

// Server wires HTTP handlers.
type Server struct {
	handler MCPHandler
	logger  *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(handler MCPHandler, opts Options) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	srv := &Server{handler: handler, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(srv.logRequests)

	r.Get("/health", srv.handleHealth)

	r.Group(func(r chi.Router) {
		if opts.Auth != nil {
			r.Use(opts.Auth)
		} else {
			r.Use(StaticTenantMiddleware(opts.DefaultTenant))
		}
		r.Post("/rpc", srv.handleRPC)
		r.Get("/tables/{table}/export", srv.handleExport)
	})

	if opts.MCP != nil {
		r.Handle("/mcp", opts.MCP)
	}

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	req, err := ParseRequest(r.Body)
	if err != nil {
		WriteError(w, nil, err)
		return
	}

	tenantID, ok := TenantFromContext(r.Context())
	if !ok || tenantID == "" {
		http.Error(w, "missing tenant", http.StatusUnauthorized)
		return
	}

	result, err := s.handler.Handle(r.Context(), tenantID, req.Method, req.Params)
	if err != nil {
		if rpcErr := WriteError(w, req.ID, err); rpcErr.Code == ErrInternal {
			s.logger.Error("rpc failed", "method", req.Method, "error", err)
		}
		return
	}

	WriteResult(w, req.ID, result)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := TenantFromContext(r.Context())
	if !ok || tenantID == "" {
		http.Error(w, "missing tenant", http.StatusUnauthorized)
		return
	}

	var buf bytes.Buffer
	name, err := s.handler.WriteExport(r.Context(), tenantID, chi.URLParam(r, "table"), &buf)
	if err != nil {
		var coded codedError
		if errors.As(err, &coded) && coded.CodeValue() == "TABLE_NOT_FOUND" {
			http.Error(w, coded.MessageValue(), http.StatusNotFound)
			return
		}
		s.logger.Error("export failed", "error", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
