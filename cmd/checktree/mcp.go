package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aretw0/checktree/internal/cli"
	"github.com/aretw0/checktree/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp [dir]",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the pack tree to AI agents as MCP tools (list_tree, toggle_node,
check_node, set_enabled, set_filter...) and a checktree://tree resource.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		// stdout carries JSON-RPC on stdio, so logs always go to stderr
		b, closeStore, logger, err := openBrowser(sigCtx, cmd, args, false)
		if err != nil {
			return err
		}
		defer closeStore()

		srv := mcp.NewServer(b)

		switch transport {
		case "stdio":
			logger.Info("starting MCP server", "transport", transport)
			return srv.ServeStdio()
		case "sse":
			logger.Info("starting MCP server", "transport", transport, "port", port)
			if err := srv.ServeSSE(sigCtx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			logger.Info("MCP server stopped")
			return nil
		default:
			return fmt.Errorf("unknown transport %q (supported: stdio, sse)", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
