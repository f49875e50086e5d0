package cmd

import (
	"github.com/huangsam/crewcast/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the crewcast MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents reconstruct intervals,
project daily forecasts and compare progress through standard tools.

Configured sources, dates and backends act as defaults for every tool call.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Headers go to stderr and are suppressed per call, keeping stdio clean.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
