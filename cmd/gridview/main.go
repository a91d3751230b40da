package main

import (
	"fmt"
	"os"

	"github.com/rpggio/gridview/internal/mcp"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "gridview",
	Short: "Serve data tables with sorting, filtering, grouping and saved views",
	Long: "gridview loads configured datasets and serves a per-tenant view engine over MCP " +
		"(stdio or streamable HTTP) and JSON-RPC. Configuration comes from GRIDVIEW_CONFIG_PATH " +
		"and GRIDVIEW_* environment variables.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: serve
		return serveCmd.RunE(cmd, args)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "gridview %s\n", version)
	},
}

func init() {
	mcp.Version = version
	rootCmd.PersistentFlags().StringVar(&tenantFlag, "tenant", mcp.DefaultTenant, "tenant whose views and groups to use")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(viewsCmd)
	rootCmd.AddCommand(tenantsCmd)
	rootCmd.AddCommand(keysCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
