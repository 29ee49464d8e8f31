package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/heritage-atlas/internal/adapters/driving/mcp"
)

var mcpPort int

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol server",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve atlas tools to an MCP client",
	Long: `Serves search, result selection, clusters, layer toggles and locate as
MCP tools, and the layer status and site records as resources.

Stdio is used by default, so an assistant can launch 'atlas mcp serve'
directly. With --port the streamable HTTP transport is served instead.`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "serve HTTP on this port instead of stdio")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	if err := ensureLoaded(cmd); err != nil {
		return err
	}
	server, err := mcp.NewServer(&mcp.Ports{
		Search:    services.Search,
		Layers:    services.Layers,
		Presenter: services.Presenter,
		Registry:  services.Registry,
		Locator:   services.Locator,
	})
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	if mcpPort == 0 {
		// stdout carries the protocol; nothing else may be printed.
		return server.Run(ctx)
	}
	addr := fmt.Sprintf("127.0.0.1:%d", mcpPort)
	fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://%s\n", addr)
	return server.RunHTTP(ctx, addr)
}
