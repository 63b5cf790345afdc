package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quotechain/internal/adapters/driving/mcp"
	"github.com/custodia-labs/quotechain/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can generate
sentences and fetch random quotes.

By default, the server communicates over stdio using JSON-RPC.

Use --port to start an HTTP server instead, and --metrics-addr to expose
Prometheus metrics while the server runs.

Examples:
  # Stdio mode
  quotechain mcp serve

  # HTTP mode with metrics
  quotechain mcp serve --port 8080 --metrics-addr :9090

Desktop client configuration:
  {
    "mcpServers": {
      "quotechain": {
        "command": "/path/to/quotechain",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	metricsAddr, err := cmd.Flags().GetString("metrics-addr")
	if err != nil {
		return fmt.Errorf("getting metrics-addr flag: %w", err)
	}

	ports := &mcp.Ports{
		Generator: sentenceGenerator,
		Quotes:    quoteRetriever,
		Catalogue: catalogueService,
	}

	server, err := mcp.NewServer(ports, mcp.WithVersion(version))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if metricsAddr != "" {
		if metricsHandler == nil {
			return errors.New("metrics not configured")
		}
		go serveMetrics(ctx, metricsAddr, metricsHandler)
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}

// serveMetrics exposes handler at /metrics until ctx is cancelled.
func serveMetrics(ctx context.Context, addr string, handler http.Handler) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	logger.Info("metrics listening on %s/metrics", addr)
	if err := mcp.ListenAndServe(ctx, addr, mux); err != nil {
		logger.Warn("metrics server: %v", err)
	}
}
