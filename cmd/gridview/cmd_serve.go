package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/gridview/internal/mcp"
	"github.com/rpggio/gridview/internal/sqlite"
	"github.com/rpggio/gridview/internal/transport"
	"github.com/spf13/cobra"
)

var serveTransport string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve tables over MCP (stdio or HTTP)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveTransport != "" {
			if err := os.Setenv("GRIDVIEW_TRANSPORT", serveTransport); err != nil {
				return err
			}
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := openApp(ctx, true)
		if err != nil {
			return err
		}
		defer a.Close()

		resolver := transport.Resolvers{
			transport.StaticTokens(a.cfg.Auth.Tokens),
			sqlite.NewAPIKeyRepository(a.db),
		}
		mcpServer := mcp.NewServer(mcp.Config{
			Tables:        a.registry,
			Resolver:      resolver,
			AuthEnabled:   a.cfg.Auth.Enabled,
			TransportMode: a.cfg.Transport.Mode,
			Logger:        a.logger,
		})

		if a.cfg.Transport.Mode == "stdio" {
			return runStdioMode(ctx, a.logger, mcpServer)
		}

		var auth func(http.Handler) http.Handler
		if a.cfg.Auth.Enabled {
			auth = transport.AuthMiddleware(resolver)
		}
		mcpHandler := sdkmcp.NewStreamableHTTPHandler(
			func(*http.Request) *sdkmcp.Server { return mcpServer },
			&sdkmcp.StreamableHTTPOptions{
				Stateless:      false,
				SessionTimeout: 30 * time.Minute,
			},
		)
		router := transport.NewServer(mcp.NewHandler(a.registry), transport.Options{
			Auth:          auth,
			DefaultTenant: mcp.DefaultTenant,
			MCP:           mcpHandler,
			Logger:        a.logger,
		})
		return runHTTPMode(ctx, a.logger, router, a.cfg.Server.Host, a.cfg.Server.Port)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveTransport, "transport", "", "override the transport mode: http or stdio")
}

func runStdioMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server) error {
	logger.Info("starting stdio transport", "auth", "disabled")

	// Run blocks until stdin closes or ctx is canceled.
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	logger.Info("shutting down")
	return nil
}

func runHTTPMode(ctx context.Context, logger *slog.Logger, handler http.Handler, host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
