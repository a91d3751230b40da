package mcp

import (
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// DefaultTenant owns all state when authentication is off.
const DefaultTenant = "default"

// Version is reported to MCP clients.
var Version = "0.1.0"

// Config contains server configuration.
type Config struct {
	Tables        TableService
	Resolver      TenantResolver
	AuthEnabled   bool
	TransportMode string // "stdio" or "http"
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "gridview",
		Version: Version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       logger,
	})

	registerDocResources(server)

	// Later middleware wraps earlier: auth runs first so traffic logs carry
	// the tenant. Stdio is local and single-user.
	server.AddReceivingMiddleware(trafficLoggingMiddleware(logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(logger, "outbound"))
	if cfg.TransportMode == "stdio" || !cfg.AuthEnabled {
		server.AddReceivingMiddleware(noAuthMiddleware(DefaultTenant))
	} else {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver, logger))
	}

	registerTools(server, NewHandler(cfg.Tables))

	return server
}
